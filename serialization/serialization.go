package serialization

import (
	"github.com/pkg/errors"
	substraitpb "github.com/substrait-io/substrait-go/proto"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

func Serialize(plan *substraitpb.Plan) ([]byte, error) {
	data, err := proto.Marshal(plan)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't serialize plan")
	}
	return data, nil
}

func Deserialize(data []byte) (*substraitpb.Plan, error) {
	var plan substraitpb.Plan
	if err := proto.Unmarshal(data, &plan); err != nil {
		return nil, errors.Wrap(err, "couldn't deserialize proto to plan")
	}
	return &plan, nil
}

var jsonOptions = protojson.MarshalOptions{
	Multiline: true,
	Indent:    "  ",
}

// MarshalJSON renders any Substrait message, most often a plan or a type, using the canonical protobuf JSON mapping.
func MarshalJSON(message proto.Message) ([]byte, error) {
	data, err := jsonOptions.Marshal(message)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't marshal %s to json", message.ProtoReflect().Descriptor().FullName())
	}
	return data, nil
}

func UnmarshalJSON(data []byte, message proto.Message) error {
	if err := protojson.Unmarshal(data, message); err != nil {
		return errors.Wrapf(err, "couldn't unmarshal json to %s", message.ProtoReflect().Descriptor().FullName())
	}
	return nil
}
