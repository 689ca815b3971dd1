// Package prompt builds the instruction payloads sent to the vision model.
package prompt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Image is an encoded image as captured by the camera or file picker.
type Image struct {
	Data     []byte
	MIMEType string
}

// Payload is one model request: an optional image followed by instruction text.
type Payload struct {
	Image *Image
	Text  string
}

const plantInstructions = `You are an expert agricultural botanist and plant disease specialist.

TASK:
1. Identify the plant species and scientific name.
2. Detect any diseases, pests, nutrient deficiencies, or environmental stress.
3. Explain the problem in simple steps that farmers can understand.
4. Provide a clear, step-by-step solution to fix the problem.

IMPORTANT — YOUTUBE GUIDANCE:
5. Recommend 3-5 YouTube videos that demonstrate HOW TO FIX or TREAT the issue.
   - Only suggest videos that likely exist on trusted agriculture channels.
   - Include: Title, Channel Name, Short Summary.
   - Generate a highly specific 'searchQuery' (e.g. "how to cure powdery mildew on roses") for each.

If the image is not a plant, set healthStatus to "Unknown".`

const locationInstructions = `You are an expert agronomist and soil scientist.
Analyze the agricultural potential for the location: %q.

Context: The current month is %s.

TASK:
1. Determine the likely climate zone and soil type for this specific region.
2. Assess if it is currently a good time to plant crops based on the season/weather pattern for this location.
3. Recommend 3-5 specific crops that would thrive in this location right now.
4. Provide a suitability score (0-100).
5. Explain your reasoning briefly (mention temperature, rainfall, or soil quality).`

// Plant packages img with the diagnosis instructions.
func Plant(img Image) Payload {
	return Payload{
		Image: &Image{Data: img.Data, MIMEType: NormaliseMIME(img.MIMEType)},
		Text:  plantInstructions,
	}
}

// Location packages a place query and the current month. Callers must
// reject queries that are blank after trimming.
func Location(query string, month time.Month) Payload {
	return Payload{Text: fmt.Sprintf(locationInstructions, query, month.String())}
}

// NormaliseMIME maps image types to the set every backend accepts. Unknown
// types are sent as jpeg.
func NormaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}

var errBadDataURL = errors.New("malformed data url")

// ImageFromDataURL decodes either a bare base64 string or a
// "data:<mime>;base64,<data>" URL. Bare strings are assumed to be jpeg.
func ImageFromDataURL(s string) (Image, error) {
	mimeType := "image/jpeg"
	data := s
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if !found {
			return Image{}, errBadDataURL
		}
		mediaType, isBase64 := strings.CutSuffix(header, ";base64")
		if !isBase64 {
			return Image{}, errBadDataURL
		}
		if mediaType != "" {
			mimeType = mediaType
		}
		data = body
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return Image{}, fmt.Errorf("decode image: %w", err)
	}
	return Image{Data: raw, MIMEType: mimeType}, nil
}
