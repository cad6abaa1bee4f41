// Package serde defines the primitives to serialize and deserialize
// (serde) the messages of the repository.
//
// A message implementation is responsible for looking up the format
// engine registered for the format of the context, so that a new format
// only requires a new engine registration.
package serde

import "io"

// Message is the interface that a data model should implement to be
// serializable.
type Message interface {
	// Serialize returns the bytes of the message according to the format
	// of the context.
	Serialize(ctx Context) ([]byte, error)
}

// Factory is the interface to implement to instantiate a data model from
// its serialized form.
type Factory interface {
	// Deserialize returns the message instantiated from the data.
	Deserialize(ctx Context, data []byte) (Message, error)
}

// Fingerprinter is the interface to implement for a message to write a
// deterministic binary representation of itself.
type Fingerprinter interface {
	Fingerprint(writer io.Writer) error
}

// Format is the identifier type of a format engine.
type Format string

const (
	// FormatJSON identifies the JSON format.
	FormatJSON Format = "JSON"
)

// FormatEngine is the interface to implement to encode and decode
// messages of a given format.
type FormatEngine interface {
	// Encode returns the serialized form of the message according to the
	// format of the engine.
	Encode(ctx Context, message Message) ([]byte, error)

	// Decode returns the message instantiated from the data according to
	// the format of the engine.
	Decode(ctx Context, data []byte) (Message, error)
}
