// Package fingerprint records quasi-stable signals about the requesting client
// and scores how much a later request deviates from them.
//
// A Fingerprint is a map of signal name to value. The HeaderCollector records
// the client IP (via clientip), the User-Agent and the Accept, Accept-Charset,
// Accept-Encoding and Accept-Language headers. Every key is always present;
// headers the client did not send are recorded as empty strings.
//
// # Challenge scoring
//
// Score walks the signals of the current fingerprint:
//
//   - a key missing from the recorded fingerprint is treated as tampering and
//     the score is TamperScore (100), evaluation stops;
//   - a signal empty on both sides carries no information and is skipped;
//   - otherwise the textual Similarity of old and new value picks a penalty:
//     below 70% adds 1.5, below 80% adds 1.0, below 90% adds 0.5.
//
// The bands are exclusive: a signal only ever earns one penalty. A challenge
// fails once the score reaches the threshold (DefaultThreshold, 1.5), so a
// single badly diverging signal is enough, while two mildly drifting ones
// (e.g. a mobile client hopping between nearby addresses) are tolerated.
//
// # Usage
//
//	fp := fingerprint.Collect(r)
//	ok, score := fingerprint.Challenge(stored, fp, fingerprint.DefaultThreshold)
//	if !ok {
//	    // treat the session as compromised
//	}
package fingerprint
