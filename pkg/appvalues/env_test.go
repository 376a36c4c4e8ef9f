package appvalues

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findEnv(env []EnvVar, name string) (EnvVar, bool) {
	for _, e := range env {
		if e.Name == name {
			return e, true
		}
	}
	return EnvVar{}, false
}

func TestEffectiveBackendEnvManagedMongo(t *testing.T) {
	v := validBase()
	v.Global.Env = []EnvVar{{Name: "APP_ORIGIN", Value: "https://app.example.com"}}
	v.Backend.Env = []EnvVar{{Name: "UPLOAD_METHOD", Value: "s3"}}

	env := v.EffectiveBackendEnv()

	// Global entries come first, then backend entries, then the managed URI.
	require.Len(t, env, 3)
	assert.Equal(t, "APP_ORIGIN", env[0].Name)
	assert.Equal(t, "UPLOAD_METHOD", env[1].Name)

	uri, ok := findEnv(env, EnvMongoDBURI)
	require.True(t, ok)
	assert.Empty(t, uri.Value)
	require.NotNil(t, uri.ValueFrom)
	require.NotNil(t, uri.ValueFrom.SecretKeyRef)
	assert.Equal(t, "mongodb", uri.ValueFrom.SecretKeyRef.Name)
	assert.Equal(t, "mongodb-uri", uri.ValueFrom.SecretKeyRef.Key)
}

func TestEffectiveBackendEnvExistingSecret(t *testing.T) {
	v := validBase()
	v.Backend.ExistingSecret = "app-stack-mongodb"

	uri, ok := findEnv(v.EffectiveBackendEnv(), EnvMongoDBURI)
	require.True(t, ok)
	assert.Equal(t, "app-stack-mongodb", uri.ValueFrom.SecretKeyRef.Name)
}

func TestEffectiveBackendEnvExternalURI(t *testing.T) {
	v := validBase()
	v.Backend.MongodbEnabled = false
	v.MongoDB.Enabled = false
	v.Backend.MongodbURI = "mongodb://db.example.com:27017/app"

	uri, ok := findEnv(v.EffectiveBackendEnv(), EnvMongoDBURI)
	require.True(t, ok)
	assert.Nil(t, uri.ValueFrom)
	assert.Equal(t, "mongodb://db.example.com:27017/app", uri.Value)
}

func TestEffectiveBackendEnvAbsentWhenUnconfigured(t *testing.T) {
	// Disabling the managed connection without supplying a URI leaves the
	// variable absent; validation flags this case separately.
	v := validBase()
	v.Backend.MongodbEnabled = false
	v.Backend.MongodbURI = ""

	_, ok := findEnv(v.EffectiveBackendEnv(), EnvMongoDBURI)
	assert.False(t, ok)
}

func TestEffectiveFrontendEnv(t *testing.T) {
	v := validBase()
	v.Global.Env = []EnvVar{{Name: "APP_ORIGIN", Value: "https://app.example.com"}}
	v.Frontend.Env = []EnvVar{{Name: "API_HOST", Value: "https://api.example.com"}}

	env := v.EffectiveFrontendEnv()
	require.Len(t, env, 2)
	assert.Equal(t, "APP_ORIGIN", env[0].Name)
	assert.Equal(t, "API_HOST", env[1].Name)

	// The frontend never receives the MongoDB connection string.
	_, ok := findEnv(env, EnvMongoDBURI)
	assert.False(t, ok)
}
