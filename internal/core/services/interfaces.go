package services

// Note: concrete service implementations live in their *_service.go files.

// Notifier delivers push notifications to a device token. Implementations are
// best-effort: delivery failures are logged by the implementation and must
// never surface to the engines that emit the intent.
type Notifier interface {
	Notify(deviceToken, title, body string)
}

// EmailSender delivers outbound email, independent of any core transaction.
// Same best-effort contract as Notifier.
type EmailSender interface {
	Send(toAddress, subject, body string)
}
