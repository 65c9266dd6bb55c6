package wweb

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"whatsweb/internal/constants"
	apperrors "whatsweb/internal/errors"
)

// StickerMetadata is written into the sticker's exif block.
type StickerMetadata struct {
	Name       string   `json:"name,omitempty"`
	Author     string   `json:"author,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

func (m StickerMetadata) empty() bool {
	return m.Name == "" && m.Author == ""
}

// VideoConverter turns a video file into an animated webp file.
type VideoConverter interface {
	ConvertToWebp(ctx context.Context, inputPath, outputPath string) error
}

// FormatToWebpSticker converts image or video media into a webp sticker.
func (c *Client) FormatToWebpSticker(ctx context.Context, media *MessageMedia, meta StickerMetadata) (*MessageMedia, error) {
	var (
		webp *MessageMedia
		err  error
	)
	switch {
	case media == nil:
		return nil, apperrors.NewValidationError("media", "", "media is required")
	case strings.Contains(media.Mimetype, "image"):
		webp, err = c.formatImageToWebp(ctx, media)
	case strings.Contains(media.Mimetype, "video"):
		webp, err = c.formatVideoToWebp(ctx, media)
	default:
		return nil, apperrors.NewValidationError("mimetype", media.Mimetype, "invalid media format")
	}
	if err != nil {
		return nil, err
	}

	if meta.empty() {
		return webp, nil
	}
	return c.writeStickerMetadata(ctx, webp, meta)
}

// formatImageToWebp fits the image into the sticker canvas. Webp input is
// already a sticker and passes through.
func (c *Client) formatImageToWebp(ctx context.Context, media *MessageMedia) (*MessageMedia, error) {
	if strings.Contains(media.Mimetype, "webp") {
		return media, nil
	}

	data, err := media.Bytes()
	if err != nil {
		return nil, apperrors.NewMediaError("decode_base64", media.Mimetype, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewMediaError("decode_image", media.Mimetype, err)
	}
	fitted := imaging.Fit(img, constants.StickerSize, constants.StickerSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, apperrors.NewMediaError("encode_image", media.Mimetype, err)
	}

	normalized := &MessageMedia{
		Mimetype: "image/png",
		Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
		Filename: media.Filename,
	}
	return c.toStickerData(ctx, normalized, nil)
}

func (c *Client) formatVideoToWebp(ctx context.Context, media *MessageMedia) (*MessageMedia, error) {
	if c.videoConverter == nil {
		return nil, apperrors.NewMediaError("convert_video", media.Mimetype,
			fmt.Errorf("no video converter configured"))
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(media.Data, "data:"+media.Mimetype+";base64,"))
	if err != nil {
		return nil, apperrors.NewMediaError("decode_base64", media.Mimetype, err)
	}

	_, videoType, _ := strings.Cut(media.Mimetype, "/")
	input, err := os.CreateTemp("", "wweb-*."+videoType)
	if err != nil {
		return nil, apperrors.NewMediaError("create_temp", media.Mimetype, err)
	}
	inputPath := input.Name()
	defer c.removeTemp(inputPath)

	_, err = input.Write(data)
	if closeErr := input.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, apperrors.NewMediaError("write_temp", media.Mimetype, err)
	}

	outputPath := strings.TrimSuffix(inputPath, "."+videoType) + ".webp"
	defer c.removeTemp(outputPath)

	if err := c.videoConverter.ConvertToWebp(ctx, inputPath, outputPath); err != nil {
		return nil, apperrors.NewMediaError("convert_video", media.Mimetype, err)
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, apperrors.NewMediaError("read_converted", media.Mimetype, err)
	}
	return &MessageMedia{
		Mimetype: "image/webp",
		Data:     base64.StdEncoding.EncodeToString(out),
		Filename: media.Filename,
	}, nil
}

func (c *Client) writeStickerMetadata(ctx context.Context, media *MessageMedia, meta StickerMetadata) (*MessageMedia, error) {
	defaults := map[string]any{
		"name":       constants.DefaultStickerName,
		"author":     constants.DefaultStickerAuthor,
		"categories": []any{},
	}
	given := map[string]any{}
	if meta.Name != "" {
		given["name"] = meta.Name
	}
	if meta.Author != "" {
		given["author"] = meta.Author
	}
	if len(meta.Categories) > 0 {
		given["categories"] = meta.Categories
	}
	return c.toStickerData(ctx, media, MergeDefault(defaults, given))
}

func (c *Client) toStickerData(ctx context.Context, media *MessageMedia, meta map[string]any) (*MessageMedia, error) {
	out := &MessageMedia{}
	found, err := c.callInto(ctx, out, fnToStickerData, media, meta)
	if err != nil {
		return nil, err
	}
	if !found || out.Data == "" {
		return nil, apperrors.NewMediaError("convert_sticker", media.Mimetype, fmt.Errorf("runtime returned no sticker data"))
	}
	if out.Filename == "" {
		out.Filename = media.Filename
	}
	return out, nil
}

// removeTemp deletes a conversion artifact. Failures are logged only.
func (c *Client) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.log().WithError(err).WithField("path", path).Warn("Failed to remove temporary sticker file")
	}
}

// MergeDefault returns given with every missing or nil key filled from def.
// Nested maps present on both sides are merged the same way. Neither input
// is modified.
func MergeDefault(def, given map[string]any) map[string]any {
	if given == nil {
		return def
	}
	out := make(map[string]any, len(given))
	for k, v := range given {
		out[k] = v
	}
	for k, dv := range def {
		gv, ok := out[k]
		if !ok || gv == nil {
			out[k] = dv
			continue
		}
		dm, dIsMap := dv.(map[string]any)
		gm, gIsMap := gv.(map[string]any)
		if dIsMap && gIsMap {
			out[k] = MergeDefault(dm, gm)
		}
	}
	return out
}
