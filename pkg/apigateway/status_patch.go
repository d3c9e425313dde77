package apigateway

import "encoding/json"

// statusMergePatch wraps a status field map as {"status": {...}}.
func statusMergePatch(status map[string]interface{}) ([]byte, error) {
	return json.Marshal(map[string]interface{}{"status": status})
}
