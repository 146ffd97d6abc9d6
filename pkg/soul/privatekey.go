package soul

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// PrivateKey is raw key material generated by the registry during
// registration when the caller did not supply a public key. It is delivered
// exactly once and never persisted server-side.
//
// The registry serializes it as a JSON array of byte values; some
// deployments send standard base64 instead, so both forms decode.
type PrivateKey []byte

func (k PrivateKey) MarshalJSON() ([]byte, error) {
	if k == nil {
		return []byte("null"), nil
	}
	ints := make([]int, len(k))
	for i, b := range k {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

func (k *PrivateKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*k = nil
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode private key: %w", err)
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("decode private key: %w", err)
		}
		*k = raw
		return nil
	}

	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return fmt.Errorf("decode private key: %w", err)
	}
	raw := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("private key byte %d out of range: %d", i, v)
		}
		raw[i] = byte(v)
	}
	*k = raw
	return nil
}
