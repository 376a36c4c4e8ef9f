package manifest

import (
	"fmt"

	"github.com/chartci/chartci/pkg/appvalues"
)

// Finding is one problem surfaced by a render check.
type Finding struct {
	// Object identifies the manifest document ("Kind/name" or an index).
	Object string
	// Msg describes the problem.
	Msg string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Object, f.Msg)
}

// CheckShape verifies every rendered document carries the minimal Kubernetes
// object shape: apiVersion, kind, and metadata.name.
func (s *Set) CheckShape() []Finding {
	var findings []Finding
	for i, obj := range s.Objects {
		id := fmt.Sprintf("document %d", i)
		if obj.Kind() != "" && obj.Name() != "" {
			id = obj.Kind() + "/" + obj.Name()
		}
		if obj.APIVersion() == "" {
			findings = append(findings, Finding{Object: id, Msg: "missing apiVersion"})
		}
		if obj.Kind() == "" {
			findings = append(findings, Finding{Object: id, Msg: "missing kind"})
		}
		if obj.Name() == "" {
			findings = append(findings, Finding{Object: id, Msg: "missing metadata.name"})
		}
	}
	return findings
}

// CheckAgainstValues verifies the rendered set agrees with the configuration
// that produced it:
//
//   - ingress.enabled false must omit the Ingress object entirely; enabled
//     must emit exactly one.
//   - backend.mongodbEnabled true must emit a secret-sourced MONGODB_URI env
//     entry on the backend workload; false must not emit any secret-sourced
//     one, and the variable is absent unless mongodbUri (or an explicit env
//     entry) supplies it.
func (s *Set) CheckAgainstValues(vals *appvalues.Values) []Finding {
	findings := s.checkIngress(vals)
	findings = append(findings, s.checkBackendMongoEnv(vals)...)
	return findings
}

func (s *Set) checkIngress(vals *appvalues.Values) []Finding {
	ingresses := s.Find("Ingress")
	if !vals.Ingress.Enabled {
		if len(ingresses) > 0 {
			return []Finding{{
				Object: "Ingress/" + ingresses[0].Name(),
				Msg:    "rendered although ingress.enabled is false",
			}}
		}
		return nil
	}
	if len(ingresses) == 0 {
		return []Finding{{Object: "Ingress", Msg: "missing although ingress.enabled is true"}}
	}
	if len(ingresses) > 1 {
		return []Finding{{Object: "Ingress", Msg: fmt.Sprintf("expected one Ingress, found %d", len(ingresses))}}
	}
	return nil
}

func (s *Set) checkBackendMongoEnv(vals *appvalues.Values) []Finding {
	backend, ok := s.findBackendWorkload()
	if !ok {
		return []Finding{{Object: "backend", Msg: "no backend workload found in rendered output"}}
	}
	id := backend.Kind() + "/" + backend.Name()

	var literal, secretRef bool
	for _, e := range backend.ContainerEnv() {
		if e.Name != appvalues.EnvMongoDBURI {
			continue
		}
		if e.SecretName != "" {
			secretRef = true
		} else {
			literal = true
		}
	}

	if vals.Backend.MongodbEnabled {
		if !secretRef {
			return []Finding{{Object: id, Msg: "missing secret-sourced MONGODB_URI although backend.mongodbEnabled is true"}}
		}
		return nil
	}

	var findings []Finding
	if secretRef && !definesSecretMongoEnv(vals) {
		findings = append(findings, Finding{Object: id, Msg: "secret-sourced MONGODB_URI rendered although backend.mongodbEnabled is false"})
	}
	if vals.Backend.MongodbURI != "" && !literal {
		findings = append(findings, Finding{Object: id, Msg: "missing literal MONGODB_URI although backend.mongodbUri is set"})
	}
	return findings
}

// definesSecretMongoEnv reports whether the operator explicitly configured a
// secret-sourced MONGODB_URI entry themselves.
func definesSecretMongoEnv(vals *appvalues.Values) bool {
	for _, e := range append(vals.Global.Env, vals.Backend.Env...) {
		if e.Name == appvalues.EnvMongoDBURI && e.ValueFrom != nil && e.ValueFrom.SecretKeyRef != nil {
			return true
		}
	}
	return false
}

// findBackendWorkload locates the backend Deployment (or StatefulSet) by the
// service identifier suffix convention the chart uses for resource names.
func (s *Set) findBackendWorkload() (Object, bool) {
	for _, kind := range []string{"Deployment", "StatefulSet"} {
		for _, obj := range s.Find(kind) {
			if hasSuffix(obj.Name(), appvalues.ServiceBackend) {
				return obj, true
			}
		}
	}
	return Object{}, false
}

func hasSuffix(name, suffix string) bool {
	return len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix
}
