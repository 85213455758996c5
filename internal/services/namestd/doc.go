// Package namestd talks to the external name-standardization service. It
// canonicalizes free-text participant names, including mapping shared family
// logins to the student actually present. A passthrough implementation
// covers deployments without the service.
package namestd
