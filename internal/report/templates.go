package report

const textTemplate = `{{range .Changed}}
{{.Name}} ({{.Path}}) - {{.Summary}}

{{range .Entries}}{{.Symbol}} {{.Path}}{{if .Detail}} ({{.Detail}}){{end}}
{{end}}{{end}}`

const htmlTemplate = `<html>
    <head>
        <meta name="color-scheme" content="light dark">
        <style type="text/css">

            :root {
                --primary-background-color: #fff;
                --primary-foreground-color: #000;
                --secondary-background-color: #f6f8fa;
                --addition-background-color: #dafbe1;
                --deletion-background-color: #ffebe9;
                --modification-background-color: #c7abff;
                --border-color: #d1d9e0;
                --padding: 0.5rem;
            }

            @media (prefers-color-scheme: dark) {
                :root {
                    --primary-background-color: #181818;
                    --primary-foreground-color: #fff;
                    --secondary-background-color: #151b23;
                    --addition-background-color: #2ea04326;
                    --deletion-background-color: #f851491a;
                    --modification-background-color: #260960;
                    --border-color: #3d444d;
                }
            }

            body {
                background-color: var(--primary-background-color);
                color: var(--primary-foreground-color);
            }

            footer {
                color: #aaa;
                text-align: center;
            }

            .folder {
                border: 1px solid var(--border-color);
                border-radius: 8px;
                margin-bottom: 1rem;
                overflow: hidden;
            }

            .folder header {
                background-color: var(--secondary-background-color);
                padding: calc(2 * var(--padding));
            }

            .folder header .name {
                font-weight: bold;
            }

            ul.changes {
                list-style: none;
                margin: 0;
                padding: 0;
                border-top: 1px solid var(--border-color);
            }

            ul.changes li {
                display: block;
                padding: var(--padding) calc(2 * var(--padding));
            }

            ul.changes li .detail {
                color: #888;
                float: right;
            }

            .addition {
                background-color: var(--addition-background-color);
            }

            .deletion {
                background-color: var(--deletion-background-color);
            }

            .modification {
                background-color: var(--modification-background-color);
            }

        </style>
    </head>
    <body>
        {{- range .Changed}}
            <section class="folder">
                <header>
                    <div class="name">{{.Name}}</div>
                    <div class="path">{{.Path}} - {{.Summary}}</div>
                </header>
                <ul class="changes">
                    {{- range .Entries}}
                    <li class="{{.Class}}">{{.Path}}<span class="detail">{{with .MIME}}{{.}} {{end}}{{.Detail}}</span></li>
                    {{- end}}
                </ul>
            </section>
        {{- end}}

        <footer>
            <p>Generated by reporter{{with .RunID}} (run {{.}}){{end}}.</p>
        </footer>

    </body>
</html>
`
