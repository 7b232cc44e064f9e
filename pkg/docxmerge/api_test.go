package docxmerge

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type EngineSuite struct {
	suite.Suite
	dir  string
	path string
}

func (s *EngineSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.path = filepath.Join(s.dir, "letter.docx")
	body := `<w:p><w:r><w:t>Dear {{name}},</w:t></w:r></w:p>`
	s.Require().NoError(os.WriteFile(s.path, buildDocx(s.T(), body), 0644))
}

func (s *EngineSuite) TestPrepareFileCachesByPath() {
	engine := NewWithOptions(WithCache(5), WithLogger(NewLogger(nil, LogOff)))
	defer engine.Close()

	first, err := engine.PrepareFile(s.path)
	s.Require().NoError(err)
	second, err := engine.PrepareFile(s.path)
	s.Require().NoError(err)
	s.Same(first, second)

	engine.ClearCache()
	s.False(first.isClosed())

	third, err := engine.PrepareFile(s.path)
	s.Require().NoError(err)
	s.NotSame(first, third)
}

func (s *EngineSuite) render(tmpl *PreparedTemplate, name string) []string {
	out, err := tmpl.Render(TemplateData{"name": name})
	s.Require().NoError(err)
	_, entries := readEntries(s.T(), out)
	return paragraphTexts(s.T(), string(entries[PartDocument]))
}

func (s *EngineSuite) TestEvictedTemplateStaysUsable() {
	other := filepath.Join(s.dir, "memo.docx")
	s.Require().NoError(os.WriteFile(other, buildDocx(s.T(), `<w:p><w:r><w:t>To {{name}}</w:t></w:r></w:p>`), 0644))

	engine := NewWithOptions(WithCache(1), WithLogger(NewLogger(nil, LogOff)))
	defer engine.Close()

	held, err := engine.PrepareFile(s.path)
	s.Require().NoError(err)
	_, err = engine.PrepareFile(other)
	s.Require().NoError(err)
	s.Equal([]string{"Dear Ada,"}, s.render(held, "Ada"))

	engine.ClearCache()
	s.Equal([]string{"Dear Bob,"}, s.render(held, "Bob"))

	s.Require().NoError(engine.Close())
	s.Equal([]string{"Dear Cy,"}, s.render(held, "Cy"))
}

func (s *EngineSuite) TestSetCacheConfigKeepsHeldTemplates() {
	previous := GetGlobalConfig()
	defer func() {
		SetCacheConfig(previous.CacheMaxSize, previous.CacheTTL)
		SetGlobalConfig(previous)
	}()

	SetCacheConfig(5, 0)
	held, err := PrepareFile(s.path)
	s.Require().NoError(err)

	SetCacheConfig(2, time.Minute)
	s.Equal([]string{"Dear Ada,"}, s.render(held, "Ada"))
}

func (s *EngineSuite) TestPrepareFileWithoutCache() {
	engine := testEngine()

	first, err := engine.PrepareFile(s.path)
	s.Require().NoError(err)
	second, err := engine.PrepareFile(s.path)
	s.Require().NoError(err)
	s.NotSame(first, second)
}

func (s *EngineSuite) TestClosedTemplateIsPreparedAgain() {
	engine := NewWithOptions(WithCache(5), WithLogger(NewLogger(nil, LogOff)))
	defer engine.Close()

	first, err := engine.PrepareFile(s.path)
	s.Require().NoError(err)
	s.Require().NoError(first.Close())

	second, err := engine.PrepareFile(s.path)
	s.Require().NoError(err)
	s.NotSame(first, second)

	out, err := second.Render(TemplateData{"name": "Ada"})
	s.Require().NoError(err)
	_, entries := readEntries(s.T(), out)
	s.Equal([]string{"Dear Ada,"}, paragraphTexts(s.T(), string(entries[PartDocument])))
}

func (s *EngineSuite) TestPrepareFileMissing() {
	_, err := testEngine().PrepareFile(filepath.Join(s.dir, "nope.docx"))
	s.Error(err)
	s.True(IsPackagingError(err))
}

func (s *EngineSuite) TestConfigIsCopied() {
	config := DefaultConfig()
	config.ScaleImages = false
	engine := NewWithConfig(config)
	defer engine.Close()

	config.ScaleImages = true
	s.False(engine.Config().ScaleImages)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}
