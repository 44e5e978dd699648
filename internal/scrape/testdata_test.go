package scrape

const sectionPage = `<!DOCTYPE html>
<html><body>
<main>
  <div data-indexcard="true">
    <a href="/news/articles/c1">
      <h2 data-testid="card-headline">OpenAI unveils a new model</h2>
    </a>
    <p data-testid="card-description">The release focuses on reasoning.</p>
    <span data-testid="card-metadata-lastupdated">10 Jan 2024</span>
  </div>
  <div data-indexcard="true">
    <a href="https://www.bbc.co.uk/news/articles/c2"><h3>Robots in the warehouse</h3></a>
    <span data-testid="card-metadata-lastupdated">11 January 2024</span>
  </div>
  <div data-indexcard="true">
    <h2 data-testid="card-headline">Card without a link</h2>
    <span data-testid="card-metadata-lastupdated">10 Jan 2024</span>
  </div>
  <div data-indexcard="true">
    <a href="https://example.com/sponsored"><h2>Sponsored</h2></a>
  </div>
  <div data-indexcard="true">
    <a href="javascript:void(0)"><h2>Sign in</h2></a>
  </div>
  <div data-indexcard="true">
    <a href="/news/articles/c1#comments"><h2>Duplicate of the first card</h2></a>
    <span data-testid="card-metadata-lastupdated">10 Jan 2024</span>
  </div>
  <div data-indexcard="true">
    <a href="/news/articles/c3"></a>
    <p>Only a paragraph here</p>
    <time datetime="2024-01-10T08:30:00.000Z">Wednesday</time>
  </div>
  <div data-indexcard="true">
    <a href="/news/articles/c4"><h2 data-testid="card-headline">Mystery date</h2></a>
    <span data-testid="card-metadata-lastupdated">Sometime soon</span>
  </div>
</main>
</body></html>`
