// Package soul defines the wire types exchanged with a Soul Protocol
// registry: DID documents, verifiable birth certificates, and the aggregate
// Soul record the registry keeps per agent identity.
//
// Everything here is a plain value record mirroring the registry's JSON.
// Ordered sequences (contexts, verification methods, credential type tags)
// are slices and keep exactly the order the registry sent them in — they
// are not sets. Optional fields carry omitempty so they disappear from
// encoded JSON instead of being sent as null. Timestamps stay ISO-8601
// strings on the wire and in memory; the client performs no date math.
package soul

// Status is the lifecycle state of a Soul as reported by the registry.
//
// The sequence is unclaimed → claimed → revoked, with unclaimed → revoked
// the only permitted skip. Revocation happens out of band: some registries
// signal it only through a non-empty RevokedAt rather than an explicit
// "revoked" status string, so treat this as an open set and check RevokedAt
// when it matters.
type Status string

const (
	StatusUnclaimed Status = "unclaimed"
	StatusClaimed   Status = "claimed"
	StatusRevoked   Status = "revoked"
)

// DIDDocument is a W3C-style DID document describing the keys and services
// bound to a Soul's DID.
//
// Every entry in Authentication references the id of an entry in
// VerificationMethod. The registry enforces this at issuance; the document
// is immutable once issued.
type DIDDocument struct {
	Context            []string             `json:"@context"`
	ID                 string               `json:"id"`
	Controller         string               `json:"controller"`
	VerificationMethod []VerificationMethod `json:"verificationMethod"`
	Authentication     []string             `json:"authentication"`
	Service            []ServiceEndpoint    `json:"service,omitempty"`
}

// VerificationMethod is a public-key entry in a DID document.
type VerificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
}

// ServiceEndpoint advertises a service reachable for the DID subject.
type ServiceEndpoint struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Proof is the registry's signature over a birth certificate. ProofValue is
// opaque to this SDK; verification happens on the registry (see the verify
// operation) or in a caller-supplied verifier.
type Proof struct {
	Type               string `json:"type"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofPurpose       string `json:"proofPurpose"`
	ProofValue         string `json:"proofValue"`
}

// SoulCredentialSubject carries the claims asserted about an agent at
// birth. ID equals the owning Soul's DID.
type SoulCredentialSubject struct {
	ID             string `json:"id"`
	SoulName       string `json:"soulName"`
	BirthTimestamp string `json:"birthTimestamp"`
	BaseModel      string `json:"baseModel"`
	Platform       string `json:"platform"`
	Operator       string `json:"operator,omitempty"`
	Lineage        string `json:"lineage,omitempty"`
	CharterHash    string `json:"charterHash,omitempty"`
	Purpose        string `json:"purpose,omitempty"`
}

// BirthCertificate is the verifiable-credential envelope around a
// SoulCredentialSubject, signed by the issuing registry.
type BirthCertificate struct {
	Context           []string              `json:"@context"`
	Type              []string              `json:"type"`
	Issuer            string                `json:"issuer"`
	IssuanceDate      string                `json:"issuanceDate"`
	CredentialSubject SoulCredentialSubject `json:"credentialSubject"`
	Proof             Proof                 `json:"proof"`
}

// Soul is the registry's aggregate record for one agent identity. The
// registry owns it; this SDK only ever holds read-only projections.
// DIDDocument.ID and BirthCertificate.CredentialSubject.ID both equal DID.
type Soul struct {
	DID              string           `json:"did"`
	DIDDocument      DIDDocument      `json:"didDocument"`
	BirthCertificate BirthCertificate `json:"birthCertificate"`
	Status           Status           `json:"status"`
	CreatedAt        string           `json:"createdAt"`
	ClaimedAt        string           `json:"claimedAt,omitempty"`
	RevokedAt        string           `json:"revokedAt,omitempty"`
}
