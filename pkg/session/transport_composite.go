package session

import (
	"errors"
	"net/http"
)

// CompositeTransport combines transports, e.g. cookies for browsers and
// headers for API clients. Reads use the first transport that carries an
// identifier; writes and clears go to all of them.
type CompositeTransport struct {
	transports []Transport
}

// NewCompositeTransport creates a transport over transports, in read order.
func NewCompositeTransport(transports ...Transport) *CompositeTransport {
	return &CompositeTransport{transports: transports}
}

// ReadIdentifier returns the first identifier found.
func (t *CompositeTransport) ReadIdentifier(r *http.Request, name string) (string, error) {
	for _, tr := range t.transports {
		if id, err := tr.ReadIdentifier(r, name); err == nil && id != "" {
			return id, nil
		}
	}
	return "", ErrSessionNotFound
}

// WriteIdentifier writes id through every transport.
func (t *CompositeTransport) WriteIdentifier(w http.ResponseWriter, name, id string, attrs Attributes) error {
	var errs []error
	for _, tr := range t.transports {
		if err := tr.WriteIdentifier(w, name, id, attrs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clear clears name on every transport.
func (t *CompositeTransport) Clear(w http.ResponseWriter, name string, attrs Attributes) error {
	var errs []error
	for _, tr := range t.transports {
		if err := tr.Clear(w, name, attrs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
