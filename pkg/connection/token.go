package connection

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Token is the opaque canonical serialization of an Info: the attribute
// map JSON-encoded with lexicographically sorted keys, then base64url
// encoded without padding. Encoding is deterministic, so identical
// semantic content always yields an identical token regardless of field
// insertion order.
type Token string

// Encode serializes info into its canonical token.
func Encode(info Info) Token {
	// json.Marshal sorts map keys lexicographically, which is exactly
	// the canonical form the token needs.
	data, err := json.Marshal(info.attrs())
	if err != nil {
		// Attribute maps are string->string; this cannot fail.
		panic(fmt.Sprintf("connection: encoding attrs: %v", err))
	}
	return Token(base64.RawURLEncoding.EncodeToString(data))
}

// Decode is the inverse of Encode. It re-encodes the decoded value and
// compares against the input before returning, rejecting tokens produced
// by a non-canonical encoder with ErrMalformedToken.
func Decode(token Token) (Info, error) {
	data, err := base64.RawURLEncoding.DecodeString(string(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var attrs map[string]string
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	info, err := fromAttrs(attrs)
	if err != nil {
		return nil, err
	}

	if Encode(info) != token {
		return nil, fmt.Errorf("%w: token is not in canonical form", ErrMalformedToken)
	}
	return info, nil
}

func fromAttrs(attrs map[string]string) (Info, error) {
	switch Kind(attrs["kind"]) {
	case KindAzAuth:
		return AzAuth{
			ConnID:   attrs["id"],
			Name:     attrs["name"],
			Cluster:  attrs["cluster"],
			Database: attrs["database"],
		}, nil
	case KindAppInsights:
		return AppInsights{
			ConnID: attrs["id"],
			Name:   attrs["name"],
		}, nil
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrMalformedToken, attrs["kind"])
	}
}
