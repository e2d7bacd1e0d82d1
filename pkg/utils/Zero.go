package utils


/*
	get the zero value for any type T
*/

func GetZero [T any]() T {
	var zero T
	return zero
}
