package broker

import (
	"investmanager.com/dto"
)

const TransactionExecutedDestination = "/queue/transaction-executed"

func SendTransactionExecuted(event dto.TransactionExecutedEvent) error {
	return sendReliable(TransactionExecutedDestination, event)
}

// Publisher adapts the package-level connection to the transaction
// processor's notifier.
type Publisher struct{}

func (Publisher) PublishTransactionExecuted(event dto.TransactionExecutedEvent) error {
	return SendTransactionExecuted(event)
}
