package types

// Version is the sitesync release version, reported by `sitesync version`
// and embedded in deploy reports.
const Version = "0.3.0"
