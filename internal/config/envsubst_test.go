package config

import (
	"testing"
)

func TestSubstituteEnvVars_Simple(t *testing.T) {
	t.Setenv("TEST_VAR_SIMPLE", "hello")

	content, missing := substituteEnvVars("value = ${TEST_VAR_SIMPLE}")
	if content != "value = hello" {
		t.Errorf("expected 'value = hello', got %q", content)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing vars, got %v", missing)
	}
}

func TestSubstituteEnvVars_Missing(t *testing.T) {
	// t.Setenv cannot truly unset, so we use a name we know is never set
	content, missing := substituteEnvVars("value = ${ARRSNAP_TEST_NONEXISTENT_VAR_12345}")
	if content != "value = ${ARRSNAP_TEST_NONEXISTENT_VAR_12345}" {
		t.Errorf("expected unchanged, got %q", content)
	}
	if len(missing) != 1 || missing[0] != "ARRSNAP_TEST_NONEXISTENT_VAR_12345" {
		t.Errorf("expected [ARRSNAP_TEST_NONEXISTENT_VAR_12345], got %v", missing)
	}
}

func TestSubstituteEnvVars_SetButEmpty(t *testing.T) {
	t.Setenv("TEST_VAR_EMPTY", "")

	content, missing := substituteEnvVars(`key = "${TEST_VAR_EMPTY}"`)
	if content != `key = ""` {
		t.Errorf("expected empty substitution, got %q", content)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing vars, got %v", missing)
	}
}

func TestSubstituteEnvVars_Default(t *testing.T) {
	// Empty string triggers the default, same as unset
	t.Setenv("UNSET_VAR_DEFAULT", "")

	content, missing := substituteEnvVars("value = ${UNSET_VAR_DEFAULT:-default_value}")
	if content != "value = default_value" {
		t.Errorf("expected 'value = default_value', got %q", content)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing vars with default, got %v", missing)
	}
}

func TestSubstituteEnvVars_EmptyDefault(t *testing.T) {
	content, missing := substituteEnvVars(`key = "${ARRSNAP_TEST_NEVER_SET_OPTIONAL:-}"`)
	if content != `key = ""` {
		t.Errorf("expected empty default, got %q", content)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing vars, got %v", missing)
	}
}

func TestSubstituteEnvVars_DefaultOverriddenByEnv(t *testing.T) {
	t.Setenv("SET_VAR_OVERRIDE", "from_env")

	content, missing := substituteEnvVars("value = ${SET_VAR_OVERRIDE:-default}")
	if content != "value = from_env" {
		t.Errorf("expected 'value = from_env', got %q", content)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing vars, got %v", missing)
	}
}

func TestSubstituteEnvVars_RequiredError(t *testing.T) {
	t.Setenv("REQUIRED_VAR_TEST", "")

	content, missing := substituteEnvVars("value = ${REQUIRED_VAR_TEST:?API key is required}")
	if content != "value = ${REQUIRED_VAR_TEST:?API key is required}" {
		t.Errorf("expected unchanged, got %q", content)
	}
	if len(missing) != 1 || missing[0] != "REQUIRED_VAR_TEST: API key is required" {
		t.Errorf("expected error message, got %v", missing)
	}
}

func TestSubstituteEnvVars_Multiple(t *testing.T) {
	t.Setenv("VAR1_MULTI", "one")
	t.Setenv("VAR3_MULTI", "")

	content, missing := substituteEnvVars("${VAR1_MULTI} ${ARRSNAP_VAR2_NONEXISTENT} ${VAR3_MULTI:-three}")
	if content != "one ${ARRSNAP_VAR2_NONEXISTENT} three" {
		t.Errorf("expected 'one ${ARRSNAP_VAR2_NONEXISTENT} three', got %q", content)
	}
	if len(missing) != 1 || missing[0] != "ARRSNAP_VAR2_NONEXISTENT" {
		t.Errorf("expected [ARRSNAP_VAR2_NONEXISTENT], got %v", missing)
	}
}

func TestSubstituteEnvVars_SkipsCommentLines(t *testing.T) {
	t.Setenv("VAR_COMMENTED", "set")

	in := "# uses ${ARRSNAP_COMMENT_ONLY_VAR} and ${X:?never}\n  # ${VAR_COMMENTED}\nkey = \"${VAR_COMMENTED}\"\n"
	content, missing := substituteEnvVars(in)
	want := "# uses ${ARRSNAP_COMMENT_ONLY_VAR} and ${X:?never}\n  # ${VAR_COMMENTED}\nkey = \"set\"\n"
	if content != want {
		t.Errorf("expected comments untouched, got %q", content)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing vars from comments, got %v", missing)
	}
}
