// Package deps resolves the external executables captioner shells out to and
// confirms each one starts by running a cheap command such as --version.
package deps
