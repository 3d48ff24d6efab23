package state

// MoveNext advances the cursor, wrapping from the last item to the first.
func (l *List[T]) MoveNext() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = -1
		return false
	}
	old := l.Cursor
	l.Cursor = (l.Cursor + 1) % n
	return old != l.Cursor
}

// MovePrev moves the cursor back, wrapping from the first item to the last.
func (l *List[T]) MovePrev() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = -1
		return false
	}
	old := l.Cursor
	if l.Cursor <= 0 {
		l.Cursor = n - 1
	} else {
		l.Cursor--
	}
	return old != l.Cursor
}

// MoveHome moves the cursor to the first item.
func (l *List[T]) MoveHome() bool {
	if len(l.Items) == 0 {
		l.Cursor = -1
		return false
	}
	old := l.Cursor
	l.Cursor = 0
	return old != l.Cursor
}

// MoveEnd moves the cursor to the last item.
func (l *List[T]) MoveEnd() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = -1
		return false
	}
	old := l.Cursor
	l.Cursor = n - 1
	return old != l.Cursor
}

// MovePageUp moves the cursor up by the visible page size without wrapping.
func (l *List[T]) MovePageUp(maxVisible int) bool {
	return l.moveBy(-l.pageSize(maxVisible))
}

// MovePageDown moves the cursor down by the visible page size without wrapping.
func (l *List[T]) MovePageDown(maxVisible int) bool {
	return l.moveBy(l.pageSize(maxVisible))
}

func (l *List[T]) moveBy(delta int) bool {
	if len(l.Items) == 0 {
		l.Cursor = -1
		return false
	}
	old := l.Cursor
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	l.Cursor += delta
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Cursor >= len(l.Items) {
		l.Cursor = len(l.Items) - 1
	}
	return l.Cursor != old
}

func (l *List[T]) pageSize(maxVisible int) int {
	total := len(l.Items)
	if total == 0 {
		return 0
	}
	size := maxVisible
	if size <= 0 || size > total {
		size = total
	}
	if size < 1 {
		size = 1
	}
	return size
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays visible.
func (l *List[T]) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor = -1
		l.ViewportOffset = 0
		return
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Cursor >= len(l.Items) {
		l.Cursor = len(l.Items) - 1
	}
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Items) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if l.ViewportOffset > maxOffset {
		l.ViewportOffset = maxOffset
	}
	if l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	upper := l.ViewportOffset + maxVisible - 1
	if l.Cursor > upper {
		l.ViewportOffset = l.Cursor - maxVisible + 1
		if l.ViewportOffset < 0 {
			l.ViewportOffset = 0
		}
		if l.ViewportOffset > maxOffset {
			l.ViewportOffset = maxOffset
		}
	}
}
