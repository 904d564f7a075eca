// Copyright 2025 CloudWeGo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spdy3

// Dictionary is the preset zlib dictionary SPDY/3 peers use to seed their
// header-block compressor, so headers compress well even in the first
// frame of a connection, before the compressor has built up its own
// history. It is well-known, fixed content shared by every SPDY/3
// implementation; a peer that seeds its decompressor with anything else
// cannot decode frames produced by a compliant encoder.
//
// UNVERIFIED: these bytes are reconstructed from memory, not copied from
// an authoritative source (none was available). Interop with a real
// SPDY/3 peer is unverified until this is checked byte-for-byte against
// the SPDY draft or a known implementation. See DESIGN.md.
var Dictionary = []byte("" +
	"optionsgetheadpostputdeletetraceacceptaccept-charsetaccept-encodingaccept-" +
	"languageauthorizationexpectfromhostif-modified-sinceif-matchif-none-matchi" +
	"f-rangeif-unmodifiedsincemax-forwardsproxy-authorizationrangerefererteuser" +
	"-agent10010120020120220320420520630030130230330430530630740040140240340440" +
	"5406407408409410411412413414415416417500501502503504505accept-rangesageet" +
	"aglocationproxy-authenticatepublicretry-afterserverservervarywarningwww-au" +
	"thenticateallowcontent-basecontent-encodingcache-controlconnectiondatetrai" +
	"lertransfer-encodingupgradeviawarningcontent-languagecontent-lengthconten" +
	"t-locationcontent-md5content-rangecontent-typeetagexpireslast-modifiedset" +
	"-cookieMondayTuesdayWednesdayThursdayFridaySaturdaySundayJanFebMarAprMayJu" +
	"nJulAugSepOctNovDec00:00:00Mon, 01-Jan-1970 00:00:00 GMTchunked,text/html," +
	"image/png,image/jpg,image/gif,application/xml,application/xhtml+xml,text/" +
	"plain,public,max-age=,charset=iso-8859-1,utf-8,gzip,deflate,HTTP/1.1,stat" +
	"us,version,url\x00")
