package cache

// node is an entry in the recency list. Head is the most recently used.
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// list is a doubly-linked recency list. It is not synchronized.
type list[K comparable, V any] struct {
	head *node[K, V]
	tail *node[K, V]
	len  int
}

func (l *list[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.len++
}

func (l *list[K, V]) moveToFront(n *node[K, V]) {
	if n == l.head {
		return
	}
	l.unlink(n)
	l.pushFront(n)
}

// removeOldest unlinks the tail and returns it, or nil when empty.
func (l *list[K, V]) removeOldest() *node[K, V] {
	n := l.tail
	if n != nil {
		l.unlink(n)
	}
	return n
}

func (l *list[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev = nil
	n.next = nil
	l.len--
}
