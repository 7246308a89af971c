// Package utils validates HTTP input before it reaches the registry.
package utils
