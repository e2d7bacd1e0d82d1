package httpservice

import "encoding/json"
import "net/http"

import "github.com/sirgallo/flow/pkg/logger"
import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/state"


const NAME = "Http Service"

const DeployRoute = "/deploy"
const InstanceRoute = "/instance"
const MessageRoute = "/message"
const ResolveRoute = "/resolve"
const IncidentsRoute = "/incidents"

/*
	command submission surface of the node, proposals route to the replicated
	log through the consensus layer
*/

type CommandProposer interface {
	Propose(command record.Record) (int64, error)
	CurrentLeader() string
}

type HTTPServiceOpts struct {
	Port int

	Proposer CommandProposer
	State    *state.State
}

type HTTPService struct {
	Mux  *http.ServeMux
	Port string

	Proposer CommandProposer
	State    *state.State

	Log clog.CustomLog
}

type DeployRequest struct {
	ProcessId string          `json:"processId"`
	Resource  json.RawMessage `json:"resource"`
}

type CreateInstanceRequest struct {
	ProcessId string          `json:"processId"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

type PublishMessageRequest struct {
	Name      string          `json:"name"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

type ResolveIncidentRequest struct {
	IncidentKey int64 `json:"incidentKey"`
}

type CommandResponse struct {
	RequestId  string `json:"requestId"`
	Accepted   bool   `json:"accepted"`
	Index      int64  `json:"index"`
	LeaderHint string `json:"leaderHint,omitempty"`
}
