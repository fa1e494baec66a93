package config

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidator(t *testing.T) {
	v, err := newValidator(customValidations)
	require.NoError(t, err)
	require.NotNil(t, v)

	_, err = newValidator(map[string]validator.Func{
		"": func(validator.FieldLevel) bool { return true },
	})
	assert.Error(t, err)
}

func TestGetValidator_RegistersCustomTags(t *testing.T) {
	v := getValidator()

	assert.NoError(t, v.Var("shop_v2", "projectname"))
	assert.Error(t, v.Var("Shop V2", "projectname"))
	assert.NoError(t, v.Var("http://{URL}/admin", "urltemplate"))
	assert.Error(t, v.Var("http://localhost", "urltemplate"))
}
