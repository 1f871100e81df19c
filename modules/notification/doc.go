// Package notification stores per-user notifications. Admins send them
// directly; other modules send them through Module.Notify.
package notification
