package record

import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Record


/*
	construct a typed record for the given value type and intent
	--> the value is json encoded so records can pass through the
		replicated log and the committed record stream unchanged
*/

func NewRecord [T any](valueType ValueType, intent Intent, key int64, value T) (*Record, error) {
	encoded, encErr := utils.EncodeStructToBytes[T](value)
	if encErr != nil { return nil, encErr }

	return &Record{
		Key: key,
		ValueType: valueType,
		Intent: intent,
		Value: encoded,
	}, nil
}

/*
	decode the value payload of a record into its typed form
*/

func DecodeValue [T any](rec *Record) (*T, error) {
	value, decErr := utils.DecodeBytesToStruct[T](rec.Value)
	if decErr != nil { return nil, decErr }

	return value, nil
}
