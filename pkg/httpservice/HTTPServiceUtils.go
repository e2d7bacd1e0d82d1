package httpservice

import "github.com/google/uuid"


//=========================================== HTTP Service Utils


/*
	generate a unique identifier for an incoming client request, echoed back
	in the response so submissions can be traced through the log
*/

func (httpService *HTTPService) GenerateRequestUUID() string {
	id := uuid.New()
	return id.String()
}
