package appvalues

// EnvMongoDBURI is the environment variable the backend reads its MongoDB
// connection string from.
const EnvMongoDBURI = "MONGODB_URI"

// defaultMongoSecretName is the secret the subchart provisions when no
// existingSecret is configured.
const defaultMongoSecretName = "mongodb"

// mongoSecretKey is the key within that secret holding the connection string.
const mongoSecretKey = "mongodb-uri"

// EffectiveBackendEnv computes the environment list the deployment template
// materializes for the backend container: global entries first, then
// backend-specific entries, then the chart-managed MONGODB_URI entry.
//
// When backend.mongodbEnabled is true the MONGODB_URI entry references the
// subchart's secret; when false and mongodbUri is set it is a literal entry;
// when neither applies the variable is simply absent.
func (v *Values) EffectiveBackendEnv() []EnvVar {
	env := make([]EnvVar, 0, len(v.Global.Env)+len(v.Backend.Env)+1)
	env = append(env, v.Global.Env...)
	env = append(env, v.Backend.Env...)

	switch {
	case v.Backend.MongodbEnabled:
		env = append(env, EnvVar{
			Name: EnvMongoDBURI,
			ValueFrom: &EnvVarSource{
				SecretKeyRef: &SecretKeySelector{
					Name: v.mongoSecretName(),
					Key:  mongoSecretKey,
				},
			},
		})
	case v.Backend.MongodbURI != "":
		env = append(env, EnvVar{
			Name:  EnvMongoDBURI,
			Value: v.Backend.MongodbURI,
		})
	}
	return env
}

// EffectiveFrontendEnv computes the environment list for the frontend
// container: global entries first, then frontend-specific entries.
func (v *Values) EffectiveFrontendEnv() []EnvVar {
	env := make([]EnvVar, 0, len(v.Global.Env)+len(v.Frontend.Env))
	env = append(env, v.Global.Env...)
	env = append(env, v.Frontend.Env...)
	return env
}

func (v *Values) mongoSecretName() string {
	if v.Backend.ExistingSecret != "" {
		return v.Backend.ExistingSecret
	}
	return defaultMongoSecretName
}
