// Package hostlink streams scene construction to a remote modelling tool
// over a websocket. Every host call is one Event; the remote side answers
// each with an ack carrying the same sequence number.
package hostlink

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/smasonuk/beamscene/scene"
)

// Event is the message sent in both directions. Data holds the payload of
// the call named by Name, or an Ack.
type Event struct {
	Seq  uint64      `json:"seq"`
	Name string      `json:"name"`
	Data interface{} `json:"data"`
}

const eventAck = "ack"

// Ack answers the event with the same Seq. Error is empty on success.
type Ack struct {
	Error string `json:"error,omitempty"`
}

// PrimitiveData is the payload of a primitive event.
type PrimitiveData struct {
	Primitive scene.Primitive `json:"primitive"`
	Material  *scene.Material `json:"material,omitempty"`
}

// RemoteError is a failure reported by the remote host.
type RemoteError struct {
	Kind    scene.CommandKind
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote host failed %s: %s", e.Kind, e.Message)
}

// decode fills out from a payload that went through JSON, so it arrives
// as nested maps and slices. Keys are the JSON names of the fields.
func decode(in, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      out,
		ErrorUnused: true,
		DecodeHook:  mapstructure.TextUnmarshallerHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
