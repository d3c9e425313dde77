/*
Copyright 2019 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package topology renders the cluster.nix document embedded into every
// child NixosConfiguration. Rendering is pure: identical inputs always
// produce byte-identical output.
package topology

import (
	"fmt"
	"strings"
)

// Node is one entry in the rendered topology — a machine name paired with
// its resolved network address.
type Node struct {
	Name string
	IP   string
}

// Render produces the cluster.nix attribute-set document for clusterName,
// given ordered control-plane and worker node lists. The IP on each Node
// must already be resolved by the caller (Machine.Address()): IPAddress,
// else Hostname, else "unknown".
func Render(clusterName string, controlPlane, workers []Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n{ config, pkgs, ... }:\n{\n")
	fmt.Fprintf(&b, "  # Cluster configuration generated by nico-cluster-controller\n")
	fmt.Fprintf(&b, "  cluster = {\n")
	fmt.Fprintf(&b, "    name = %q;\n", clusterName)
	fmt.Fprintf(&b, "    controlPlane = %s;\n", renderNodes(controlPlane))
	fmt.Fprintf(&b, "    workers = %s;\n", renderNodes(workers))
	fmt.Fprintf(&b, "  };\n")
	fmt.Fprintf(&b, "}\n")
	return b.String()
}

func renderNodes(nodes []Node) string {
	if len(nodes) == 0 {
		return "[ ]"
	}
	var b strings.Builder
	b.WriteString("[\n")
	for _, n := range nodes {
		fmt.Fprintf(&b, "    { name = %q; ip = %q; }\n", n.Name, n.IP)
	}
	b.WriteString("  ]")
	return b.String()
}
