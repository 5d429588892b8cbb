package fingerprint

import "context"

type fingerprintContextKey struct{}

// SetFingerprintToContext stores fp in ctx.
func SetFingerprintToContext(ctx context.Context, fp Fingerprint) context.Context {
	return context.WithValue(ctx, fingerprintContextKey{}, fp)
}

// GetFingerprintFromContext returns the fingerprint stored in ctx, or nil.
func GetFingerprintFromContext(ctx context.Context) Fingerprint {
	fp, _ := ctx.Value(fingerprintContextKey{}).(Fingerprint)
	return fp
}
