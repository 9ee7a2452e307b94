package config

import (
	"os"
	"testing"
)

func TestGetConfig(t *testing.T) {
	testKey := "TEST_CONFIG_KEY"
	testValue := "test_config_value"

	os.Setenv(testKey, testValue)
	defer os.Unsetenv(testKey)

	if err := InitGlobalConfig(); err != nil {
		t.Fatalf("InitGlobalConfig: %v", err)
	}

	if got := GetConfig(testKey); got != testValue {
		t.Errorf("GetConfig(%s) = %q; want %q", testKey, got, testValue)
	}

	if got := GetConfigWithDefault(testKey, "default_value"); got != testValue {
		t.Errorf("GetConfigWithDefault(%s) = %q; want %q", testKey, got, testValue)
	}

	if got := GetConfigWithDefault("NON_EXISTENT_KEY", "default_value"); got != "default_value" {
		t.Errorf("GetConfigWithDefault(missing) = %q; want default_value", got)
	}
}

func TestIsGlobalConfigInitialized(t *testing.T) {
	if err := InitGlobalConfig(); err != nil {
		t.Fatalf("InitGlobalConfig: %v", err)
	}
	if !IsGlobalConfigInitialized() {
		t.Error("IsGlobalConfigInitialized() = false; want true")
	}
}

func TestConfigManagerCreation(t *testing.T) {
	manager, err := NewConfigManager()
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}
	if manager.GetConfigSource() != "env-file" {
		t.Errorf("source = %q; want env-file default", manager.GetConfigSource())
	}

	testKey := "TEST_MANAGER_KEY"
	testValue := "test_manager_value"
	os.Setenv(testKey, testValue)
	defer os.Unsetenv(testKey)

	if got := manager.Get(testKey); got != testValue {
		t.Errorf("manager.Get(%s) = %q; want %q", testKey, got, testValue)
	}
	if got := manager.Get("NON_EXISTENT_KEY"); got != "" {
		t.Errorf("manager.Get(missing) = %q; want empty", got)
	}
}
