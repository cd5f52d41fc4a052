package builder

import "github.com/wolfeidau/enactpack/internal/webpack"

// Minimizers returns the production minification passes, or nil for
// development builds.
func (c *Composer) Minimizers() webpack.Plugins {
	if !c.flags.Production {
		return nil
	}

	css := &webpack.CSSOptimizePlugin{
		CSSProcessorOptions: webpack.CSSProcessorOptions{Calc: false},
	}
	if c.flags.SourceMap {
		// written to a separate file, with a sourceMappingURL annotation
		css.CSSProcessorOptions.Map = &webpack.CSSMapOptions{Inline: false, Annotation: true}
	}

	return webpack.Plugins{
		&webpack.TerserPlugin{
			TerserOptions: webpack.TerserOptions{
				// Parse ES2017 but only apply ES5-safe compress and output
				// transforms.
				Parse: webpack.TerserParseOptions{ECMA: 8},
				Compress: webpack.TerserCompressOptions{
					ECMA:     5,
					Warnings: false,
					// comparisons breaks valid code: https://github.com/mishoo/UglifyJS2/issues/2011
					Comparisons: false,
					// higher inline levels break valid code: https://github.com/terser-js/terser/issues/120
					Inline: 2,
				},
				Output: webpack.TerserOutputOptions{
					ECMA:     5,
					Comments: false,
					// emoji and regex literals are mangled otherwise
					ASCIIOnly: true,
				},
			},
			Parallel:  true,
			Cache:     true,
			SourceMap: c.flags.SourceMap,
		},
		css,
	}
}
