package render

// Viewport is a rectangle in window pixels, origin bottom-left.
type Viewport struct {
	X, Y, Width, Height int32
}

// Letterbox fits a world of worldW x worldH into a window, keeping the aspect ratio and
// centring the result.
func Letterbox(worldW, worldH, windowW, windowH int32) Viewport {
	aspect := float32(worldW) / float32(worldH)
	v := Viewport{Width: windowW, Height: int32(float32(windowW) / aspect)}

	if v.Height > windowH {
		v.Height = windowH
		v.Width = int32(aspect * float32(windowH))
	}

	v.X = (windowW - v.Width) / 2
	v.Y = (windowH - v.Height) / 2
	return v
}
