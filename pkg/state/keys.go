package state

// Key layout:
//
//	region:{profileID}:{sessionID} → msgpack-encoded echo.RegionState
//	series:{fingerprint}:{variant} → msgpack-encoded analysis.Series
//
// Lexicographic iteration over "region:{profileID}:" lists every session of
// a profile, so IDs must not contain ':'. The series variant is an opaque
// caller-built tag encoding the analysis options, which keeps differently
// configured runs over the same media from colliding.

func regionKey(profileID, sessionID string) []byte {
	return []byte("region:" + profileID + ":" + sessionID)
}

func regionPrefix(profileID string) []byte {
	return []byte("region:" + profileID + ":")
}

func seriesKey(fingerprint, variant string) []byte {
	return []byte("series:" + fingerprint + ":" + variant)
}
