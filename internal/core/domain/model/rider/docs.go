// Package rider contains the rider aggregate and the LocationSample value
// object. The aggregate models dispatchability (online + available); the
// sample models one ephemeral position report. Position history is
// deliberately not modeled: the core retains only the latest sample per
// rider, everything older belongs to external collaborators.
package rider
