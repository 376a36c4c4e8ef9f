package appvalues

import (
	"fmt"

	"github.com/distribution/reference"
)

const maxPort = 65535

// Validate checks the full document against the schema invariants and returns
// a *ValidationErrors aggregating every failure, or nil when the document is
// valid.
func (v *Values) Validate() error {
	verrs := &ValidationErrors{}

	validateEnvList(verrs, "global.env", v.Global.Env)

	validateWorkload(verrs, "frontend", v.Frontend.ReplicaCount, v.Frontend.Image, v.Frontend.Service)
	validateEnvList(verrs, "frontend.env", v.Frontend.Env)

	validateWorkload(verrs, "backend", v.Backend.ReplicaCount, v.Backend.Image, v.Backend.Service)
	validateEnvList(verrs, "backend.env", v.Backend.Env)
	v.validateMongoDB(verrs)
	v.validateVolumeClaim(verrs)
	v.validateIngress(verrs)

	return verrs.orNil()
}

func validateWorkload(verrs *ValidationErrors, section string, replicas int, img Image, svc Service) {
	if replicas < 0 {
		verrs.add(section+".replicaCount", "must not be negative, got %d", replicas)
	}
	validateImage(verrs, section+".image", img)
	if svc.Port < 1 || svc.Port > maxPort {
		verrs.add(section+".service.port", "must be between 1 and %d, got %d", maxPort, svc.Port)
	}
}

// validateImage checks the repository and tag against the OCI reference
// grammar.
func validateImage(verrs *ValidationErrors, path string, img Image) {
	if img.Repository == "" {
		verrs.add(path+".repository", "is required")
		return
	}
	named, err := reference.ParseNormalizedNamed(img.Repository)
	if err != nil {
		verrs.add(path+".repository", "invalid image repository %q: %v", img.Repository, err)
		return
	}
	if img.Tag != "" {
		if _, err := reference.WithTag(named, img.Tag); err != nil {
			verrs.add(path+".tag", "invalid image tag %q: %v", img.Tag, err)
		}
	}
}

// validateEnvList enforces the env entry invariant: a name plus exactly one
// of a literal value or a secret key reference. Entries with both or neither
// are rejected rather than resolved by precedence.
func validateEnvList(verrs *ValidationErrors, path string, env []EnvVar) {
	seen := make(map[string]int, len(env))
	for i, e := range env {
		entryPath := fmt.Sprintf("%s[%d]", path, i)
		if e.Name == "" {
			verrs.add(entryPath+".name", "is required")
		} else if prev, dup := seen[e.Name]; dup {
			verrs.add(entryPath+".name", "duplicate env var %q (first defined at index %d)", e.Name, prev)
		} else {
			seen[e.Name] = i
		}

		hasValue := e.Value != ""
		hasRef := e.ValueFrom != nil && e.ValueFrom.SecretKeyRef != nil
		switch {
		case hasValue && hasRef:
			verrs.add(entryPath, "must set exactly one of value or valueFrom.secretKeyRef, not both")
		case !hasValue && !hasRef:
			verrs.add(entryPath, "must set exactly one of value or valueFrom.secretKeyRef")
		case hasRef:
			if e.ValueFrom.SecretKeyRef.Name == "" {
				verrs.add(entryPath+".valueFrom.secretKeyRef.name", "is required")
			}
			if e.ValueFrom.SecretKeyRef.Key == "" {
				verrs.add(entryPath+".valueFrom.secretKeyRef.key", "is required")
			}
		}
	}
}

// validateMongoDB checks the cross-section MongoDB wiring: the backend either
// uses the bundled subchart (secret-sourced URI) or an explicit external URI,
// never both, never neither.
func (v *Values) validateMongoDB(verrs *ValidationErrors) {
	if v.Backend.MongodbEnabled {
		if !v.MongoDB.Enabled {
			verrs.add("mongodb.enabled", "must be true when backend.mongodbEnabled is true")
		}
		if v.Backend.MongodbURI != "" {
			verrs.add("backend.mongodbUri", "must be empty when backend.mongodbEnabled is true")
		}
		for i, e := range v.Backend.Env {
			if e.Name == EnvMongoDBURI {
				verrs.add(fmt.Sprintf("backend.env[%d]", i),
					"must not define %s: the chart manages it when backend.mongodbEnabled is true", EnvMongoDBURI)
			}
		}
		return
	}

	if v.Backend.MongodbURI == "" && !definesEnv(v.Backend.Env, EnvMongoDBURI) && !definesEnv(v.Global.Env, EnvMongoDBURI) {
		verrs.add("backend.mongodbUri", "is required when backend.mongodbEnabled is false")
	}
}

func (v *Values) validateVolumeClaim(verrs *ValidationErrors) {
	if !v.Backend.VolumeClaim.Enabled {
		return
	}
	if v.Backend.VolumeClaim.Name == "" {
		verrs.add("backend.volumeClaim.name", "is required when backend.volumeClaim.enabled is true")
	}
	if v.Backend.VolumeClaim.MountPath == "" {
		verrs.add("backend.volumeClaim.mountPath", "is required when backend.volumeClaim.enabled is true")
	}
}

func (v *Values) validateIngress(verrs *ValidationErrors) {
	ing := v.Ingress
	if !ing.Enabled {
		return
	}
	if len(ing.Hosts) == 0 {
		verrs.add("ingress.hosts", "at least one host rule is required when ingress.enabled is true")
	}
	for i, host := range ing.Hosts {
		hostPath := fmt.Sprintf("ingress.hosts[%d]", i)
		if host.Host == "" {
			verrs.add(hostPath+".host", "is required")
		}
		if len(host.Paths) == 0 {
			verrs.add(hostPath+".paths", "at least one path rule is required")
		}
		for j, p := range host.Paths {
			rulePath := fmt.Sprintf("%s.paths[%d]", hostPath, j)
			if p.Path == "" {
				verrs.add(rulePath+".path", "is required")
			}
			if !knownService(p.Service) {
				verrs.add(rulePath+".service", "unknown service %q, must be %q or %q",
					p.Service, ServiceFrontend, ServiceBackend)
			}
			if !knownPathType(p.PathType) {
				verrs.add(rulePath+".pathType", "unknown path type %q", p.PathType)
			}
		}
	}
	for i, tls := range ing.TLS {
		tlsPath := fmt.Sprintf("ingress.tls[%d]", i)
		if tls.SecretName == "" {
			verrs.add(tlsPath+".secretName", "is required")
		}
		if len(tls.Hosts) == 0 {
			verrs.add(tlsPath+".hosts", "at least one host is required")
		}
	}
}

func knownService(name string) bool {
	return name == ServiceFrontend || name == ServiceBackend
}

func knownPathType(pathType string) bool {
	switch pathType {
	case "", PathTypePrefix, PathTypeExact, PathTypeImplementationSpecific:
		// Empty defaults to Prefix in the template.
		return true
	default:
		return false
	}
}

func definesEnv(env []EnvVar, name string) bool {
	for _, e := range env {
		if e.Name == name {
			return true
		}
	}
	return false
}
