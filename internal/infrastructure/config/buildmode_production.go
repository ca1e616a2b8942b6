//go:build !dev

package config

const defaultEnvironment = EnvProduction
