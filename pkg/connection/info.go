// Package connection defines connection identity, the canonical token
// encoding, the per-connection capability contract, and the capability
// registry.
package connection

// Kind discriminates connection variants.
type Kind string

// Connection kinds.
const (
	KindAzAuth      Kind = "azauth"
	KindAppInsights Kind = "appinsights"
)

// Info is the immutable identity of a data-source connection. Two Info
// values name the same connection iff their encoded tokens are equal;
// the token is the registry and controller key.
//
// Info is a closed union: AzAuth and AppInsights are the only variants.
type Info interface {
	// ID is the connection's stable identifier.
	ID() string
	// DisplayName is the user-facing label.
	DisplayName() string
	// Kind reports the variant tag.
	Kind() Kind

	// attrs returns the canonical attribute map used by Encode. Closing
	// the union here keeps encoding exhaustive over the variants.
	attrs() map[string]string
}

// AzAuth identifies a cluster connection authenticated through a bearer
// token.
type AzAuth struct {
	ConnID  string
	Name    string
	Cluster string
	// Database is the optional default database queries run against.
	Database string
}

// ID implements Info.
func (a AzAuth) ID() string { return a.ConnID }

// DisplayName implements Info.
func (a AzAuth) DisplayName() string { return a.Name }

// Kind implements Info.
func (AzAuth) Kind() Kind { return KindAzAuth }

func (a AzAuth) attrs() map[string]string {
	m := map[string]string{
		"cluster": a.Cluster,
		"id":      a.ConnID,
		"kind":    string(KindAzAuth),
		"name":    a.Name,
	}
	if a.Database != "" {
		m["database"] = a.Database
	}
	return m
}

// AppInsights identifies an Application Insights app connection.
type AppInsights struct {
	ConnID string
	Name   string
}

// ID implements Info.
func (a AppInsights) ID() string { return a.ConnID }

// DisplayName implements Info.
func (a AppInsights) DisplayName() string { return a.Name }

// Kind implements Info.
func (AppInsights) Kind() Kind { return KindAppInsights }

func (a AppInsights) attrs() map[string]string {
	return map[string]string{
		"id":   a.ConnID,
		"kind": string(KindAppInsights),
		"name": a.Name,
	}
}

// Verify the union.
var (
	_ Info = AzAuth{}
	_ Info = AppInsights{}
)
