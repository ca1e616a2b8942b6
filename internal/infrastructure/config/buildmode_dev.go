//go:build dev

package config

// defaultEnvironment is development for `wails dev` builds, which set the dev tag
const defaultEnvironment = EnvDevelopment
