package config

import (
	"encoding/json"
	"fmt"
	"github.com/shimmeringbee/zigbee"
	"github.com/tidwall/gjson"
)

// Configuration files share a common envelope: a Type discriminator and a
// Config stanza whose shape depends on the Type. unmarshalTyped extracts the
// discriminator and decodes the stanza into the concrete type selected by the
// caller.
func unmarshalTyped(data []byte, selector func(string) (any, error)) (string, any, error) {
	result := gjson.GetBytes(data, "Type")
	if !result.Exists() {
		return "", nil, fmt.Errorf("failed to find type information")
	}

	cfgType := result.String()

	cfg, err := selector(cfgType)
	if err != nil {
		return cfgType, nil, err
	}

	if result := gjson.GetBytes(data, "Config"); result.Exists() {
		return cfgType, cfg, json.Unmarshal([]byte(result.Raw), cfg)
	}

	return cfgType, nil, fmt.Errorf("unable to find Config stanza: %s", cfgType)
}

type LoggingConfig struct {
	Name   string `json:"-"`
	Type   string
	Config any
}

func (g *LoggingConfig) UnmarshalJSON(data []byte) error {
	var err error

	g.Type, g.Config, err = unmarshalTyped(data, func(t string) (any, error) {
		switch t {
		case "stdout":
			return &StdoutLogging{}, nil
		case "file":
			return &FileLogging{}, nil
		default:
			return nil, fmt.Errorf("unknown logging configuration type: %s", t)
		}
	})

	return err
}

type BaseLogging struct {
	Level string

	NegateSubsystems bool
	Subsystems       []string
}

type StdoutLogging struct {
	BaseLogging
}

type FileLogging struct {
	BaseLogging

	Filename string
	Size     int
	Count    int
	Compress bool
}

type InterfaceConfig struct {
	Name   string `json:"-"`
	Type   string
	Config any
}

func (g *InterfaceConfig) UnmarshalJSON(data []byte) error {
	var err error

	g.Type, g.Config, err = unmarshalTyped(data, func(t string) (any, error) {
		switch t {
		case "http":
			return &HTTPInterfaceConfig{}, nil
		case "mqtt":
			return &MQTTInterfaceConfig{}, nil
		default:
			return nil, fmt.Errorf("unknown interface configuration type: %s", t)
		}
	})

	return err
}

type HTTPInterfaceConfig struct {
	Port        int
	EnabledAPIs []string

	Auth *HTTPAuth
}

type HTTPAuth struct {
	Type string

	SystemIdentifier string
	KeyIdentifier    string
	PrivateKey       string
	TTL              int
}

type MQTTInterfaceConfig struct {
	Server string

	TLS         *MQTTTLS
	Credentials *MQTTCredentials

	Retained    bool
	QOS         byte
	TopicPrefix string

	PublishStateOnConnect bool
}

type MQTTTLS struct {
	IgnoreSystemRootCertificates bool
	SkipCertificateVerification  bool
	Key                          string
	Cert                         string
	CACert                       string
}

type MQTTCredentials struct {
	Username string
	Password string
}

type TransceiverConfig struct {
	Name   string `json:"-"`
	Type   string
	Config any
}

func (g *TransceiverConfig) UnmarshalJSON(data []byte) error {
	var err error

	g.Type, g.Config, err = unmarshalTyped(data, func(t string) (any, error) {
		switch t {
		case "zstack":
			return &ZStackTransceiver{}, nil
		default:
			return nil, fmt.Errorf("unknown transceiver configuration type: %s", t)
		}
	})

	return err
}

type ZStackTransceiver struct {
	Port struct {
		Name string
		Baud int
	}

	Network *zigbee.NetworkConfiguration
}
