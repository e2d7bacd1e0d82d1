package httpservice

import "net/http"

import "github.com/sirgallo/flow/pkg/logger"
import "github.com/sirgallo/flow/pkg/utils"


//=========================================== HTTP Service


/*
	create a new service instance with passable options
	--> initialize the mux server and register the client facing routes on it:
		deployments, process instance creation, message publication, incident
		resolution and the open incident listing
*/

func NewHTTPService(opts *HTTPServiceOpts) *HTTPService {
	mux := http.NewServeMux()

	httpService := &HTTPService{
		Mux: mux,
		Port: utils.NormalizePort(opts.Port),
		Proposer: opts.Proposer,
		State: opts.State,
		Log: *clog.NewCustomLog(NAME),
	}

	httpService.RegisterRoutes()

	return httpService
}

/*
	Start HTTP Service
		--> start the server to begin listening for client requests
*/

func (httpService *HTTPService) StartHTTPService() {
	go func() {
		httpService.Log.Info("http service starting up on port:", httpService.Port)

		srvErr := http.ListenAndServe(httpService.Port, httpService.Mux)
		if srvErr != nil { httpService.Log.Fatal("unable to start http service") }
	}()
}
