package utils

import "strconv"


/*
	Normalize Port:
		convert a port number to a formatted string with a leading colon
		so it can be passed directly to net listeners
*/

func NormalizePort(port int) string {
	return ":" + strconv.Itoa(port)
}
