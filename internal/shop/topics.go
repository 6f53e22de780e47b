package shop

import "strconv"

const TopicOrderPlaced = "shop.order.placed"

// Partition key = order id, semua event satu order masuk partisi yang sama.
func PartitionKey(orderID int64) []byte { return []byte(strconv.FormatInt(orderID, 10)) }
