// Package thumbnail resizes stored images into fixed-width previews.
//
// Generate decodes JPEG, PNG, GIF, WebP and BMP sources, scales them to the
// requested width with golang.org/x/image/draw (Catmull-Rom) keeping the
// aspect ratio, and encodes the result. JPEG sources stay JPEG; every other
// format is written as PNG. Sources above DefaultMaxPixels are refused from
// their header alone, before decoding.
//
// Thumbnails live next to the original blob: Path("files/abc", 250) is
// "files/abc_250". Writing the same width twice replaces the previous output,
// so regenerating is safe.
//
//	img, err := thumbnail.Decode(src)
//	if err != nil {
//		return err
//	}
//	for _, w := range thumbnail.DefaultWidths {
//		data, _, err := img.Scale(w)
//		if err != nil {
//			return err
//		}
//		if err := storage.Write(ctx, thumbnail.Path(path, w), data); err != nil {
//			return err
//		}
//	}
package thumbnail
