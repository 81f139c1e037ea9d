package balancer

import (
	"hash/fnv"

	"github.com/segmentio/kafka-go"
)

// OrderBalancer 依訊息 key（聚合 id）雜湊分區
// 同一張訂單的事件固定落在同一分區，保留順序
type OrderBalancer struct {
	BaseBalancer
}

func NewOrderBalancer(numPartitions int) IBaseBalancer {
	return &OrderBalancer{BaseBalancer: NewBaseBalancer(numPartitions)}
}

func (b *OrderBalancer) Balance(msg kafka.Message, partitions ...int) (partition int) {
	h := fnv.New32a()
	h.Write(msg.Key)
	bucket := h.Sum32()

	if len(partitions) != 0 {
		return partitions[int(bucket%uint32(len(partitions)))]
	}
	if b.numPartitions == 0 {
		return 0
	}
	return int(bucket % uint32(b.numPartitions))
}
