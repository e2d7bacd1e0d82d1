package configtests

import "os"
import "path/filepath"
import "testing"

import "github.com/sirgallo/flow/pkg/config"


func writeMockConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yml")

	writeErr := os.WriteFile(path, []byte(content), 0644)
	if writeErr != nil { t.Fatalf("unable to write config file: %s", writeErr.Error()) }

	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeMockConfig(t, `
host: flowsrv1
hosts:
  flowsrv1: flowsrv1.local
  flowsrv2: flowsrv2.local
  flowsrv3: flowsrv3.local
partition:
  id: 1
  count: 1
`)

	conf, confErr := config.LoadConfig(path)
	if confErr != nil { t.Fatalf("error on loading config: %s", confErr.Error()) }

	t.Logf("actual config: %v", conf)
	if conf.Host != "flowsrv1" { t.Errorf("actual host not equal to expected: actual(%s), expected(%s)\n", conf.Host, "flowsrv1") }
	if conf.Ports.Http != config.DefaultHttpPort { t.Errorf("actual http port not equal to expected: actual(%d), expected(%d)\n", conf.Ports.Http, config.DefaultHttpPort) }
	if conf.Ports.Raft != config.DefaultRaftPort { t.Errorf("actual raft port not equal to expected: actual(%d), expected(%d)\n", conf.Ports.Raft, config.DefaultRaftPort) }
	if conf.Raft.HeartbeatIntervalMs != config.DefaultHeartbeatIntervalMs { t.Errorf("actual heartbeat interval not equal to expected: actual(%d), expected(%d)\n", conf.Raft.HeartbeatIntervalMs, config.DefaultHeartbeatIntervalMs) }
	if conf.Exporter.BulkSize != config.DefaultExporterBulkSize { t.Errorf("actual bulk size not equal to expected: actual(%d), expected(%d)\n", conf.Exporter.BulkSize, config.DefaultExporterBulkSize) }
	if conf.DataPath != config.DefaultDataPath { t.Errorf("actual data path not equal to expected: actual(%s), expected(%s)\n", conf.DataPath, config.DefaultDataPath) }
}

func TestLoadConfigRejectsMissingHost(t *testing.T) {
	path := writeMockConfig(t, `
hosts:
  flowsrv1: flowsrv1.local
partition:
  id: 1
  count: 1
`)

	conf, confErr := config.LoadConfig(path)

	t.Logf("actual error: %v", confErr)
	if confErr == nil { t.Errorf("actual error is nil, expected a validation error\n") }
	if conf != nil { t.Errorf("actual config not equal to expected: actual(%v), expected(%v)\n", conf, nil) }
}

func TestLoadConfigRejectsInvalidPartition(t *testing.T) {
	path := writeMockConfig(t, `
host: flowsrv1
hosts:
  flowsrv1: flowsrv1.local
partition:
  id: 3
  count: 1
`)

	_, confErr := config.LoadConfig(path)

	t.Logf("actual error: %v", confErr)
	if confErr == nil { t.Errorf("actual error is nil, expected a validation error\n") }
}

func TestPeersExcludeTheLocalHost(t *testing.T) {
	path := writeMockConfig(t, `
host: flowsrv1
hosts:
  flowsrv1: flowsrv1.local
  flowsrv2: flowsrv2.local
  flowsrv3: flowsrv3.local
partition:
  id: 1
  count: 1
`)

	conf, confErr := config.LoadConfig(path)
	if confErr != nil { t.Fatalf("error on loading config: %s", confErr.Error()) }

	peers := conf.Peers()

	t.Logf("actual peers: %v", peers)
	if len(peers) != 2 { t.Errorf("actual peer count not equal to expected: actual(%d), expected(%d)\n", len(peers), 2) }

	for _, peer := range peers {
		if peer == "flowsrv1" { t.Errorf("actual peers include the local host: actual(%v)\n", peers) }
	}
}
