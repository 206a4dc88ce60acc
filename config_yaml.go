package beanio

import yaml "gopkg.in/yaml.v2"

// DecodeStreamConfigYAML is the YAML convenience decoder for a StreamConfig,
// offered alongside DecodeStreamConfigJSON. Like its JSON sibling this is a
// convenience for tests and embedding, not the schema-validated
// mapping-file loader (still out of scope).
func DecodeStreamConfigYAML(data []byte) (*StreamConfig, error) {
	var cfg StreamConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, ErrMalformedMapping.New(err.Error())
	}
	return &cfg, nil
}
