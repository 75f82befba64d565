package state

const (
	// InitialTTL is the hop budget every packet starts with. It bounds
	// the forwarding depth of a single packet regardless of topology.
	InitialTTL = 32

	// PrefixLen is the only prefix length the simulator understands.
	PrefixLen = 24
)
