package ingress

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/gateway-route-configurator/internal/relation"
)

// Databag keys of the ingress-per-app schema.
const (
	KeyName          = "name"
	KeyModel         = "model"
	KeyPort          = "port"
	KeyStripPrefix   = "strip-prefix"
	KeyRedirectHTTPS = "redirect-https"
	KeyScheme        = "scheme"
)

// Schemes accepted in the scheme key.
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
	SchemeH2C   = "h2c"
)

const (
	minPort = 1
	maxPort = 65535
)

var (
	// ErrDataValidation marks ingress data that is present but malformed.
	ErrDataValidation = errors.New("ingress data validation failed")

	// ErrDataNotReady is returned while the remote application has not
	// published its data yet.
	ErrDataNotReady = errors.New("ingress data not ready")
)

// AppData holds the facts the remote application publishes about itself.
// Name, Model and Port are required; the rest are hints with defaults.
type AppData struct {
	Name          string
	Model         string
	Port          int
	StripPrefix   bool
	RedirectHTTPS bool
	Scheme        string
}

// DecodeAppData parses a remote application databag.
// Every value is a JSON document. An empty databag yields ErrDataNotReady;
// any other problem yields an error marked with ErrDataValidation.
func DecodeAppData(bag relation.Databag) (*AppData, error) {
	if len(bag) == 0 {
		return nil, ErrDataNotReady
	}

	var problems []string

	data := &AppData{Scheme: SchemeHTTP}

	if err := decodeRequired(bag, KeyName, &data.Name); err != nil {
		problems = append(problems, err.Error())
	} else if data.Name == "" {
		problems = append(problems, KeyName+": must not be empty")
	}

	if err := decodeRequired(bag, KeyModel, &data.Model); err != nil {
		problems = append(problems, err.Error())
	} else if data.Model == "" {
		problems = append(problems, KeyModel+": must not be empty")
	}

	if err := decodeRequired(bag, KeyPort, &data.Port); err != nil {
		problems = append(problems, err.Error())
	} else if data.Port < minPort || data.Port > maxPort {
		problems = append(problems, KeyPort+": out of range")
	}

	if err := decodeOptional(bag, KeyStripPrefix, &data.StripPrefix); err != nil {
		problems = append(problems, err.Error())
	}

	if err := decodeOptional(bag, KeyRedirectHTTPS, &data.RedirectHTTPS); err != nil {
		problems = append(problems, err.Error())
	}

	if err := decodeOptional(bag, KeyScheme, &data.Scheme); err != nil {
		problems = append(problems, err.Error())
	} else if !validScheme(data.Scheme) {
		problems = append(problems, KeyScheme+": unsupported scheme "+data.Scheme)
	}

	if len(problems) > 0 {
		sort.Strings(problems)

		return nil, errors.Mark(
			errors.Newf("invalid ingress data: %s", strings.Join(problems, "; ")),
			ErrDataValidation,
		)
	}

	return data, nil
}

// EncodeAppData renders data in the ingress-per-app schema.
func EncodeAppData(data *AppData) (relation.Databag, error) {
	values := map[string]any{
		KeyName:          data.Name,
		KeyModel:         data.Model,
		KeyPort:          data.Port,
		KeyStripPrefix:   data.StripPrefix,
		KeyRedirectHTTPS: data.RedirectHTTPS,
	}

	if data.Scheme != "" {
		values[KeyScheme] = data.Scheme
	}

	bag := make(relation.Databag, len(values))

	for key, value := range values {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode %s", key)
		}

		bag[key] = string(encoded)
	}

	return bag, nil
}

//nolint:wrapcheck // errors.Newf creates new errors
func decodeRequired(bag relation.Databag, key string, target any) error {
	raw, ok := bag[key]
	if !ok {
		return errors.Newf("%s: field required", key)
	}

	return decodeValue(key, raw, target)
}

func decodeOptional(bag relation.Databag, key string, target any) error {
	raw, ok := bag[key]
	if !ok {
		return nil
	}

	return decodeValue(key, raw, target)
}

func decodeValue(key, raw string, target any) error {
	err := json.Unmarshal([]byte(raw), target)
	if err != nil {
		return errors.Wrapf(err, "%s", key)
	}

	return nil
}

func validScheme(scheme string) bool {
	switch scheme {
	case SchemeHTTP, SchemeHTTPS, SchemeH2C:
		return true
	default:
		return false
	}
}
