// Package sms defines the outbound SMS seam: a template-SMS Message, its
// provider flow payload, and the Sender interface a delivery integration
// implements. DevSender writes messages to disk for development.
package sms
