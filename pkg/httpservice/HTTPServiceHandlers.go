package httpservice

import "encoding/json"
import "errors"
import "net/http"

import "github.com/sirgallo/flow/pkg/raft"
import "github.com/sirgallo/flow/pkg/record"


//=========================================== HTTP Service Handlers


func (httpService *HTTPService) RegisterRoutes() {
	httpService.Mux.HandleFunc(DeployRoute, httpService.handleDeploy)
	httpService.Mux.HandleFunc(InstanceRoute, httpService.handleCreateInstance)
	httpService.Mux.HandleFunc(MessageRoute, httpService.handlePublishMessage)
	httpService.Mux.HandleFunc(ResolveRoute, httpService.handleResolveIncident)
	httpService.Mux.HandleFunc(IncidentsRoute, httpService.handleListIncidents)
}

func (httpService *HTTPService) handleDeploy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var requestData DeployRequest
	decodeErr := json.NewDecoder(r.Body).Decode(&requestData)
	if decodeErr != nil {
		http.Error(w, "failed to parse JSON request body", http.StatusBadRequest)
		return
	}

	value := &record.DeploymentRecordValue{
		ProcessId: requestData.ProcessId,
		Resource: requestData.Resource,
	}

	rec, recErr := record.NewRecord[*record.DeploymentRecordValue](record.DeploymentValue, record.DeploymentCreated, 0, value)
	if recErr != nil {
		http.Error(w, "failed to encode command", http.StatusInternalServerError)
		return
	}

	httpService.propose(w, rec)
}

func (httpService *HTTPService) handleCreateInstance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var requestData CreateInstanceRequest
	decodeErr := json.NewDecoder(r.Body).Decode(&requestData)
	if decodeErr != nil {
		http.Error(w, "failed to parse JSON request body", http.StatusBadRequest)
		return
	}

	value := &record.ProcessInstanceRecordValue{
		ElementId: requestData.ProcessId,
		ElementType: record.ProcessElement,
		Variables: requestData.Variables,
	}

	rec, recErr := record.NewRecord[*record.ProcessInstanceRecordValue](record.ProcessInstanceValue, record.ElementActivating, 0, value)
	if recErr != nil {
		http.Error(w, "failed to encode command", http.StatusInternalServerError)
		return
	}

	httpService.propose(w, rec)
}

func (httpService *HTTPService) handlePublishMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var requestData PublishMessageRequest
	decodeErr := json.NewDecoder(r.Body).Decode(&requestData)
	if decodeErr != nil {
		http.Error(w, "failed to parse JSON request body", http.StatusBadRequest)
		return
	}

	value := &record.MessageRecordValue{
		Name: requestData.Name,
		Variables: requestData.Variables,
	}

	rec, recErr := record.NewRecord[*record.MessageRecordValue](record.MessageValue, record.EventOccurred, 0, value)
	if recErr != nil {
		http.Error(w, "failed to encode command", http.StatusInternalServerError)
		return
	}

	httpService.propose(w, rec)
}

func (httpService *HTTPService) handleResolveIncident(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var requestData ResolveIncidentRequest
	decodeErr := json.NewDecoder(r.Body).Decode(&requestData)
	if decodeErr != nil {
		http.Error(w, "failed to parse JSON request body", http.StatusBadRequest)
		return
	}

	rec, recErr := record.NewRecord[*record.IncidentRecordValue](record.IncidentValue, record.IncidentResolved, requestData.IncidentKey, nil)
	if recErr != nil {
		http.Error(w, "failed to encode command", http.StatusInternalServerError)
		return
	}

	httpService.propose(w, rec)
}

/*
	open incidents read from local state, served on any node
*/

func (httpService *HTTPService) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	incidents, getErr := httpService.State.Incidents.GetIncidents()
	if getErr != nil {
		http.Error(w, "failed to read incidents", http.StatusInternalServerError)
		return
	}

	httpService.respondJSON(w, incidents)
}

/*
	Propose
		submit a command to the consensus layer
			1.) the leader answers with the assigned log index
			2.) a follower answers accepted=false with the current leader as a
				hint, the client retries against the hinted host
*/

func (httpService *HTTPService) propose(w http.ResponseWriter, rec *record.Record) {
	requestId := httpService.GenerateRequestUUID()

	index, proposeErr := httpService.Proposer.Propose(*rec)
	if proposeErr != nil {
		if errors.Is(proposeErr, raft.ErrNotLeader) {
			httpService.respondJSON(w, &CommandResponse{
				RequestId: requestId,
				Accepted: false,
				Index: -1,
				LeaderHint: httpService.Proposer.CurrentLeader(),
			})

			return
		}

		httpService.Log.Error("propose failed for request:", requestId, proposeErr.Error())
		http.Error(w, "failed to submit command", http.StatusInternalServerError)
		return
	}

	httpService.respondJSON(w, &CommandResponse{
		RequestId: requestId,
		Accepted: true,
		Index: index,
	})
}

func (httpService *HTTPService) respondJSON(w http.ResponseWriter, payload interface{}) {
	responseJSON, encErr := json.Marshal(payload)
	if encErr != nil {
		http.Error(w, "failed to encode JSON response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseJSON)
}
