// Package appvalues defines the typed configuration schema for the
// application deployment chart (frontend, backend, optional MongoDB subchart,
// ingress) and validates merged values documents against it.
//
// The structs deliberately mirror the chart's values.yaml layout; field tags
// use JSON names because documents are decoded with sigs.k8s.io/yaml.
package appvalues

// Known service identifiers that ingress path rules may target.
const (
	ServiceFrontend = "frontend"
	ServiceBackend  = "backend"
)

// Ingress path types accepted by the Kubernetes networking API.
const (
	PathTypePrefix                 = "Prefix"
	PathTypeExact                  = "Exact"
	PathTypeImplementationSpecific = "ImplementationSpecific"
)

// Values is the root of the chart's configuration schema.
type Values struct {
	Global   GlobalValues   `json:"global,omitempty"`
	Frontend FrontendValues `json:"frontend,omitempty"`
	Backend  BackendValues  `json:"backend,omitempty"`
	MongoDB  MongoDBValues  `json:"mongodb,omitempty"`
	Ingress  IngressValues  `json:"ingress,omitempty"`
}

// GlobalValues holds configuration shared by every workload.
type GlobalValues struct {
	// Env entries are appended to every container's environment.
	Env []EnvVar `json:"env,omitempty"`
}

// FrontendValues configures the frontend workload.
type FrontendValues struct {
	ReplicaCount int      `json:"replicaCount,omitempty"`
	Image        Image    `json:"image,omitempty"`
	Service      Service  `json:"service,omitempty"`
	Command      []string `json:"command,omitempty"`
	Args         []string `json:"args,omitempty"`
	Env          []EnvVar `json:"env,omitempty"`
}

// BackendValues configures the backend workload.
type BackendValues struct {
	ReplicaCount int      `json:"replicaCount,omitempty"`
	Image        Image    `json:"image,omitempty"`
	Service      Service  `json:"service,omitempty"`
	Command      []string `json:"command,omitempty"`
	Args         []string `json:"args,omitempty"`
	Env          []EnvVar `json:"env,omitempty"`

	// MongodbEnabled selects the chart-managed MongoDB connection: when true
	// the deployment template emits a MONGODB_URI entry sourced from a secret.
	MongodbEnabled bool `json:"mongodbEnabled,omitempty"`
	// MongodbURI is the external connection string used when MongodbEnabled
	// is false.
	MongodbURI string `json:"mongodbUri,omitempty"`
	// ExistingSecret overrides the secret name the MONGODB_URI entry
	// references when MongodbEnabled is true.
	ExistingSecret string `json:"existingSecret,omitempty"`

	VolumeClaim VolumeClaim `json:"volumeClaim,omitempty"`
}

// MongoDBValues toggles the bundled MongoDB subchart.
type MongoDBValues struct {
	Enabled bool `json:"enabled,omitempty"`
}

// Image identifies a container image.
type Image struct {
	Repository string `json:"repository,omitempty"`
	Tag        string `json:"tag,omitempty"`
	PullPolicy string `json:"pullPolicy,omitempty"`
}

// Service configures a workload's ClusterIP service.
type Service struct {
	Port int `json:"port,omitempty"`
}

// VolumeClaim configures the backend's optional persistent volume.
type VolumeClaim struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Name      string `json:"name,omitempty"`
	MountPath string `json:"mountPath,omitempty"`
}

// EnvVar is a container environment entry: a name plus exactly one of a
// literal value or a reference to an external secret key.
type EnvVar struct {
	Name      string        `json:"name"`
	Value     string        `json:"value,omitempty"`
	ValueFrom *EnvVarSource `json:"valueFrom,omitempty"`
}

// EnvVarSource references an external source for an env var's value.
type EnvVarSource struct {
	SecretKeyRef *SecretKeySelector `json:"secretKeyRef,omitempty"`
}

// SecretKeySelector names a key within a secret.
type SecretKeySelector struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// IngressValues configures external HTTP(S) routing.
type IngressValues struct {
	Enabled     bool              `json:"enabled,omitempty"`
	ClassName   string            `json:"className,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	Hosts       []IngressHost     `json:"hosts,omitempty"`
	TLS         []IngressTLS      `json:"tls,omitempty"`
}

// IngressHost routes one host to a list of path rules.
type IngressHost struct {
	Host  string        `json:"host"`
	Paths []IngressPath `json:"paths"`
}

// IngressPath routes one path on a host to a target service, which must be
// one of the known service identifiers.
type IngressPath struct {
	Path     string `json:"path"`
	PathType string `json:"pathType,omitempty"`
	Service  string `json:"service"`
}

// IngressTLS names a TLS secret covering a list of hosts.
type IngressTLS struct {
	SecretName string   `json:"secretName"`
	Hosts      []string `json:"hosts"`
}
