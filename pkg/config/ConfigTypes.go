package config


const NAME = "Config"

const DefaultElectionTimeoutMinMs = 150
const DefaultElectionTimeoutMaxMs = 300
const DefaultHeartbeatIntervalMs = 50

const DefaultHttpPort = 8080
const DefaultRaftPort = 54321

const DefaultMaxConn = 10
const DefaultExporterBulkSize = 100

const DefaultDataPath = "./data"

type PortsConfig struct {
	Http int `yaml:"http"`
	Raft int `yaml:"raft"`
}

type RaftConfig struct {
	ElectionTimeoutMinMs int `yaml:"electionTimeoutMinMs"`
	ElectionTimeoutMaxMs int `yaml:"electionTimeoutMaxMs"`
	HeartbeatIntervalMs  int `yaml:"heartbeatIntervalMs"`
}

type PartitionConfig struct {
	Id    int32 `yaml:"id"`
	Count int32 `yaml:"count"`
}

type ExporterConfig struct {
	BulkSize int `yaml:"bulkSize"`
}

type Config struct {
	Host  string            `yaml:"host"`
	Hosts map[string]string `yaml:"hosts"`

	Ports     PortsConfig     `yaml:"ports"`
	Raft      RaftConfig      `yaml:"raft"`
	Partition PartitionConfig `yaml:"partition"`
	Exporter  ExporterConfig  `yaml:"exporter"`

	DataPath string `yaml:"dataPath"`
	MaxConn  int    `yaml:"maxConn"`
}
