package catalog

const (
	TopicOrderPlaced  = "order.placed"
	TopicStockChanged = "catalog.stock.changed"
	TopicStockLow     = "catalog.stock.low"
	TopicCartActivity = "cart.activity"
	TopicContact      = "contact.message"
)

// Partition key = the record's id, so all events about one product or
// order keep their relative order.
func PartitionKey(id string) []byte { return []byte(id) }
