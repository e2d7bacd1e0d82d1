package raftrpc

import "encoding/json"

import "google.golang.org/grpc/encoding"


//=========================================== Raft RPC Codec


/*
	the rpc messages ride the wire json encoded through a registered grpc codec,
	clients select it per call with grpc.CallContentSubtype(CodecName)
*/

const CodecName = "json"

type JsonCodec struct{}

func (JsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (JsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (JsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(JsonCodec{})
}
