package exchange

import "container/heap"

// orderQueue holds one side's resting orders, ordered by a
// side-specific comparator. It implements heap.Interface; manipulate
// it through container/heap (Init, Push, Pop) only.
type orderQueue struct {
	orders []Order
	before func(a, b Order) bool
}

func newAskQueue() *orderQueue { return &orderQueue{before: askBefore} }
func newBidQueue() *orderQueue { return &orderQueue{before: bidBefore} }

func (q *orderQueue) Len() int           { return len(q.orders) }
func (q *orderQueue) Less(i, j int) bool { return q.before(q.orders[i], q.orders[j]) }
func (q *orderQueue) Swap(i, j int)      { q.orders[i], q.orders[j] = q.orders[j], q.orders[i] }

func (q *orderQueue) Push(x any) {
	q.orders = append(q.orders, x.(Order))
}

func (q *orderQueue) Pop() any {
	old := q.orders
	n := len(old)
	o := old[n-1]
	q.orders = old[:n-1]
	return o
}

// push inserts a resting order.
func (q *orderQueue) push(o Order) {
	heap.Push(q, o)
}

// pop removes and returns the best order. Callers must check the queue
// is non-empty first.
func (q *orderQueue) pop() Order {
	return heap.Pop(q).(Order)
}

// peek returns the best order without removing it.
func (q *orderQueue) peek() (Order, bool) {
	if len(q.orders) == 0 {
		return Order{}, false
	}
	return q.orders[0], true
}
