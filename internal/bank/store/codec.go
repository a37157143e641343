package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/louisbranch/demobank/internal/bank/domain"
	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
)

// SchemaVersion is the current document envelope version.
const SchemaVersion = 1

// Kind names the entity collection carried by a document.
type Kind string

const (
	KindProfile     Kind = "profile"
	KindPosts       Kind = "posts"
	KindKYCRequests Kind = "kyc_requests"
)

type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Kind          Kind            `json:"kind"`
	Data          json.RawMessage `json:"data"`
}

// EncodeProfile serializes a profile document.
func EncodeProfile(profile domain.UserProfile) ([]byte, error) {
	return encode(KindProfile, profile)
}

// DecodeProfile parses and validates a profile document.
func DecodeProfile(body []byte) (domain.UserProfile, error) {
	profile, err := decode(KindProfile, body, domain.UserProfile.Validate)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return profile.WithCanonicalMoney(), nil
}

// EncodePosts serializes the post collection.
func EncodePosts(posts []domain.BlogPost) ([]byte, error) {
	if posts == nil {
		posts = []domain.BlogPost{}
	}
	return encode(KindPosts, posts)
}

// DecodePosts parses and validates the post collection.
func DecodePosts(body []byte) ([]domain.BlogPost, error) {
	return decode(KindPosts, body, domain.ValidatePosts)
}

// EncodeKYCRequests serializes the compliance queue.
func EncodeKYCRequests(requests []domain.KYCRequest) ([]byte, error) {
	if requests == nil {
		requests = []domain.KYCRequest{}
	}
	return encode(KindKYCRequests, requests)
}

// DecodeKYCRequests parses and validates the compliance queue.
func DecodeKYCRequests(body []byte) ([]domain.KYCRequest, error) {
	return decode(KindKYCRequests, body, domain.ValidateKYCRequests)
}

func encode[T any](kind Kind, value T) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", kind, err)
	}
	body, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, Kind: kind, Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", kind, err)
	}
	return body, nil
}

func decode[T any](kind Kind, body []byte, validate func(T) error) (T, error) {
	var zero T

	var env envelope
	if err := strictUnmarshal(body, &env); err != nil {
		return zero, corrupt(kind, "decode envelope", err)
	}
	if env.SchemaVersion != SchemaVersion {
		return zero, corrupt(kind, "check schema version", fmt.Errorf("unsupported schema version %d", env.SchemaVersion))
	}
	if env.Kind != kind {
		return zero, corrupt(kind, "check kind", fmt.Errorf("document holds %q", env.Kind))
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return zero, corrupt(kind, "decode data", errors.New("data is missing"))
	}

	var value T
	if err := strictUnmarshal(env.Data, &value); err != nil {
		return zero, corrupt(kind, "decode data", err)
	}
	if err := validate(value); err != nil {
		return zero, corrupt(kind, "validate data", err)
	}
	return value, nil
}

// strictUnmarshal rejects unknown fields and trailing content.
func strictUnmarshal(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing content")
	}
	return nil
}

func corrupt(kind Kind, step string, cause error) error {
	return apperrors.WrapWithMetadata(
		apperrors.CodeCorruptState,
		fmt.Sprintf("%s document: %s", kind, step),
		map[string]string{"Kind": string(kind)},
		cause,
	)
}
