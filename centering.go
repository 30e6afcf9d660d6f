package viewport

// centerContent computes the offsets that place scaled content of the given
// size in the middle of the widget. Content wider or taller than the widget
// yields negative offsets, which is correct: the overflow is split evenly
// between both sides.
//
// Pan is not folded in here. The pan offset travels as its own pipeline
// stage so that recentering on a resize never disturbs a user's pan.
func centerContent(widgetW, widgetH, contentW, contentH float64) (cx, cy float64) {
	return (widgetW - contentW) / 2, (widgetH - contentH) / 2
}
