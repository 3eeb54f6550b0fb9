package petstore

import (
	"errors"
	"fmt"

	"pawgrammers/internal/platform/httpclient"
)

// Mensajes que ve el operador.
const (
	MsgNetwork    = "Network error or server is unreachable"
	MsgUnexpected = "Unexpected error"
	MsgNotDeleted = "Server reported nothing deleted"
)

// Kind clasifica la falla.
type Kind int

const (
	// KindTransport: no hubo respuesta (red caída, timeout, conexión rechazada).
	KindTransport Kind = iota + 1
	// KindRemote: respuesta no-2xx, o 2xx con body ilegible.
	KindRemote
	// KindReconciliation: el server respondió OK pero el resultado no confirma
	// la operación (delete con deletedCount 0).
	KindReconciliation
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRemote:
		return "remote"
	case KindReconciliation:
		return "reconciliation"
	default:
		return "unknown"
	}
}

// Failure es la única señal de error que sale del cliente.
// Message siempre es legible para mostrar en la UI.
type Failure struct {
	Op      string
	Kind    Kind
	Status  int // 0 si no hubo respuesta
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("petstore.%s: %s (status=%d)", f.Op, f.Message, f.Status)
	}
	return fmt.Sprintf("petstore.%s: %s", f.Op, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// FriendlyMessage devuelve el mensaje para el operador de cualquier error.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	return MsgUnexpected
}

// AsFailure reporta si err es (o envuelve) un *Failure.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	ok := errors.As(err, &f)
	return f, ok
}

// classify convierte errores del httpclient en *Failure.
func classify(op string, err error) *Failure {
	if httpclient.IsTransport(err) {
		return &Failure{Op: op, Kind: KindTransport, Message: MsgNetwork, Err: err}
	}

	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		msg := he.Message
		if msg == "" {
			msg = MsgUnexpected
		}
		return &Failure{Op: op, Kind: KindRemote, Status: he.StatusCode, Message: msg, Err: err}
	}

	return &Failure{Op: op, Kind: KindRemote, Message: MsgUnexpected, Err: err}
}
