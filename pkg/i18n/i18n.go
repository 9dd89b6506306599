package i18n

import (
	"embed"
	"encoding/json"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embedded embed.FS

// ErrNotInitialized is returned by Load when Init has not run.
var ErrNotInitialized = errors.New("i18n: bundle not initialized")

var (
	mu     sync.RWMutex
	bundle *goi18n.Bundle
)

// Init builds the bundle with the embedded en and id messages.
func Init() {
	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, f := range []string{"locales/active.en.json", "locales/active.id.json"} {
		if _, err := b.LoadMessageFileFS(embedded, f); err != nil {
			panic(err)
		}
	}

	mu.Lock()
	bundle = b
	mu.Unlock()
}

// Load adds or overrides messages from a file on disk. The language is
// taken from the file name, e.g. active.en.json.
func Load(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if bundle == nil {
		return ErrNotInitialized
	}
	_, err := bundle.LoadMessageFile(path)
	return errors.Wrapf(err, "load messages %s", path)
}

// T localizes id for the given Accept-Language value. Unknown ids fall
// back to the id itself.
func T(lang, id string, data map[string]interface{}) string {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil {
		return id
	}

	msg, err := goi18n.NewLocalizer(b, lang, language.English.String()).Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}
