package catalog

// Descriptor is one remote catalog record. Field names mirror the service's
// JSON payload. The server is the sole source of truth for the current
// serial key, so descriptors are fetched fresh and never cached long-term.
type Descriptor struct {
	// DisplayName - the human readable mod name shown to users
	DisplayName string `json:"Mod Name"`

	// InternalName - stable identifier used for the on-disk filename and for
	// server-side key rotation
	InternalName string `json:"Mod Internal Name"`

	// ResourceRef - opaque pointer to the downloadable blob, a sharing-service
	// link
	ResourceRef string `json:"Google Drive Link"`

	// SerialKey - the current short shared secret gating installation
	SerialKey string `json:"Serial Key"`
}

// Session holds the credentials for a logged-in user. The protocol is not
// token based; every entitlement query re-authenticates with these. Held in
// process memory only, never persisted.
type Session struct {
	Email    string
	Password string
}

type userRecord struct {
	UserMods string `json:"User Mods"`
}
