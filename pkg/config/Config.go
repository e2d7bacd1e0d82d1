package config

import "errors"
import "os"

import "gopkg.in/yaml.v3"


//=========================================== Config


/*
	Load Config
		read and parse the yaml node configuration
			1.) decode the file into the config struct
			2.) validate the fields a node cannot start without
			3.) fill unset tunables with their defaults
*/

func LoadConfig(path string) (*Config, error) {
	content, readErr := os.ReadFile(path)
	if readErr != nil { return nil, readErr }

	conf := &Config{}
	decodeErr := yaml.Unmarshal(content, conf)
	if decodeErr != nil { return nil, decodeErr }

	validationErr := conf.Validate()
	if validationErr != nil { return nil, validationErr }

	conf.applyDefaults()

	return conf, nil
}

func (conf *Config) Validate() error {
	if conf.Host == "" { return errors.New("config: host is required") }
	if conf.Partition.Id <= 0 { return errors.New("config: partition id must be positive") }
	if conf.Partition.Count < conf.Partition.Id { return errors.New("config: partition count must be at least the partition id") }

	for host, addr := range conf.Hosts {
		if addr == "" { return errors.New("config: empty address for host " + host) }
	}

	return nil
}

/*
	Peers
		the other members of the cluster, every configured host except this node
*/

func (conf *Config) Peers() []string {
	peers := []string{}
	for host := range conf.Hosts {
		if host != conf.Host { peers = append(peers, host) }
	}

	return peers
}

func (conf *Config) applyDefaults() {
	if conf.Ports.Http == 0 { conf.Ports.Http = DefaultHttpPort }
	if conf.Ports.Raft == 0 { conf.Ports.Raft = DefaultRaftPort }

	if conf.Raft.ElectionTimeoutMinMs == 0 { conf.Raft.ElectionTimeoutMinMs = DefaultElectionTimeoutMinMs }
	if conf.Raft.ElectionTimeoutMaxMs == 0 { conf.Raft.ElectionTimeoutMaxMs = DefaultElectionTimeoutMaxMs }
	if conf.Raft.HeartbeatIntervalMs == 0 { conf.Raft.HeartbeatIntervalMs = DefaultHeartbeatIntervalMs }

	if conf.Exporter.BulkSize == 0 { conf.Exporter.BulkSize = DefaultExporterBulkSize }

	if conf.DataPath == "" { conf.DataPath = DefaultDataPath }
	if conf.MaxConn == 0 { conf.MaxConn = DefaultMaxConn }
}
