package types

// Version is overwritten at build time via -ldflags "-X".
var Version = "dev"

// BatchID identifies one run of the fetch-and-persist pipeline
type BatchID string

func (x BatchID) String() string { return string(x) }
