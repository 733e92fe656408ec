// Package testsupport holds shared fixtures for package tests.
package testsupport
