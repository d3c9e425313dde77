package kubeconfig

import "sigs.k8s.io/yaml"

func yamlUnmarshal(data []byte, out interface{}) error {
	return yaml.Unmarshal(data, out)
}

func yamlMarshal(in interface{}) ([]byte, error) {
	return yaml.Marshal(in)
}
